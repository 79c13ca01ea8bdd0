package metrics

import "time"

// Navigation outcomes used as the "outcome" label.
const (
	OutcomeCompleted  = "completed"
	OutcomeAborted    = "aborted"
	OutcomeCancelled  = "cancelled"
	OutcomeDuplicated = "duplicated"
	OutcomeError      = "error"
)

// NavigationFinished records a finished navigation.
func NavigationFinished(outcome string, duration time.Duration) {
	NavigationsTotal.WithLabelValues(outcome).Inc()
	NavigationDuration.Observe(duration.Seconds())
}

// NavigationRedirected records a guard redirect toward the named route.
func NavigationRedirected(target string) {
	NavigationRedirectsTotal.WithLabelValues(target).Inc()
}

// ProgressChanged publishes the progress indicator value.
func ProgressChanged(value float64) {
	NavigationProgress.Set(value)
}

// SidebarCollapsed records a forced sidebar collapse.
func SidebarCollapsed() {
	SidebarCollapsesTotal.Inc()
}
