// Command navigate runs dashboard navigations in process, against a local
// storage file, and prints where each one settled as a hash-history link.
//
// Usage:
//
//	navigate [flags] push <path>...
//	navigate [flags] login <token>
//	navigate [flags] logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/DukeRupert/kuidash/internal"
	"github.com/DukeRupert/kuidash/internal/progress"
	"github.com/DukeRupert/kuidash/internal/router"
	"github.com/DukeRupert/kuidash/internal/routes"
	"github.com/DukeRupert/kuidash/internal/session"
	"github.com/DukeRupert/kuidash/internal/ui"
)

const usage = "usage: navigate [flags] push <path>... | login <token> | logout"

var errUsage = errors.New(usage)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "navigate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("navigate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		storePath  = fs.String("store", ".kuidash/local-storage.json", "local storage file holding the session token")
		base       = fs.String("base", "kui-dashboard-vue", "document path the hash routes live under")
		width      = fs.Int("width", 0, "viewport width in px; 0 leaves it unreported")
		breakpoint = fs.Int("breakpoint", ui.DefaultBreakpoint, "viewport width at or below which the sidebar collapses")
		sidebar    = fs.Bool("sidebar", true, "sidebar open before the first navigation")
		logLevel   = fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	store, err := session.OpenFileStore(*storePath)
	if err != nil {
		return err
	}

	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "login":
		if len(rest) != 1 || rest[0] == "" {
			return errUsage
		}
		if err := store.Set(session.TokenKey, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "signed in (token %s)\n", session.Fingerprint(rest[0]))
		return nil

	case "logout":
		if err := store.Delete(session.TokenKey); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "signed out")
		return nil

	case "push":
		if len(rest) == 0 {
			return errUsage
		}
		logger := internal.NewLogger(stderr, "development", *logLevel)
		nav, err := routes.Setup(routes.Default(), routes.Options{
			Indicator:         progress.New(progress.Options{}),
			SidebarBreakpoint: *breakpoint,
			Logger:            logger,
		})
		if err != nil {
			return err
		}

		state := ui.NewSidebar(*sidebar)
		ctx := session.WithStore(context.Background(), store)
		ctx = ui.WithSidebar(ctx, state)
		if *width > 0 {
			ctx = ui.WithViewport(ctx, ui.FixedViewport(*width))
		}

		push(ctx, stdout, router.NewNavigator(nav), router.NewHashHistory(*base), state, rest)
		return nil

	default:
		return errUsage
	}
}

// push navigates to each path in turn. A failed navigation is reported and
// leaves the current location where it was.
func push(ctx context.Context, w io.Writer, nav *router.Navigator, history *router.HashHistory, sidebar *ui.Sidebar, paths []string) {
	for _, p := range paths {
		loc, err := nav.Push(ctx, p)
		if err != nil {
			fmt.Fprintf(w, "%s\tfailed: %v\n", p, err)
			continue
		}
		state := "closed"
		if sidebar.IsOpen() {
			state = "open"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\tsidebar=%s\n", p, history.Base(), history.Href(loc), loc.Name, state)
	}
}
