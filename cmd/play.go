package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/app"
	"github.com/abhisek/prepdeck/internal/events"
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/screens"
	"github.com/abhisek/prepdeck/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the terminal app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().String("name", "", "Display name on the leaderboard")
	c.Flags().String("log-file", "", "Write logs to this file")
	c.Flags().Bool("skip-splash", false, "Open straight on the home screen")
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	// The terminal owns stdout/stderr, so logs only go to an explicit file.
	log := logger.Nop()
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		var err error
		if log, err = logger.New("dev", path); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}

	e, err := setup(cmd, log)
	if err != nil {
		return err
	}
	defer e.Close()

	user, err := currentUser(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = user
	}
	tier, err := e.cfg.Entitlements().GetTier(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("resolve tier: %w", err)
	}

	reference, err := e.reference()
	if err != nil {
		return err
	}
	listener, err := e.listener()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Event publishing unavailable:", err)
		listener = events.LogListener(log)
	}

	e.scopeCache(user)
	// Leaving the app ends the user's session scope, so unused prefetched
	// pools go with it.
	defer func() {
		if err := e.pools.Clear(context.Background()); err != nil {
			log.Warn("clear pool cache", "error", err)
		}
	}()

	skip, _ := cmd.Flags().GetBool("skip-splash")
	return app.Run(app.Options{
		Deps: screens.Deps{
			Sampler:        e.sampler(),
			Results:        e.results,
			User:           session.SessionContext{UserID: user, DisplayName: name, Tier: tier},
			Analyzer:       advice.New(e.cfg.Advice.Multiplier),
			Reference:      reference,
			PerItemSeconds: e.cfg.Session.PerItemSeconds,
			Listener:       listener,
			Logger:         log,
		},
		SkipSplash: skip,
	})
}

// currentUser returns --user, falling back to the login name.
func currentUser(cmd *cobra.Command) (string, error) {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u, nil
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("no user: pass --user")
}
