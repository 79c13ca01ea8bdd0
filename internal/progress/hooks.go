package progress

import (
	"context"

	"github.com/DukeRupert/kuidash/internal/domain"
	"github.com/DukeRupert/kuidash/internal/router"
)

// StartHook returns a guard that starts the indicator and always proceeds.
// Register it before other guards so the indicator shows while they run.
func StartHook(p *Indicator) router.Guard {
	return func(ctx context.Context, to, from domain.Location) router.Decision {
		p.Start()
		return router.Next()
	}
}

// DoneHook returns an after hook that completes the indicator, whatever
// the navigation outcome.
func DoneHook(p *Indicator) router.AfterHook {
	return func(ctx context.Context, to, from domain.Location, failure error) {
		p.Done()
	}
}
