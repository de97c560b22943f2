package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/app"
	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/credential"
	"github.com/nhle/modelswitch/internal/model"
	"github.com/nhle/modelswitch/internal/picker"
)

// runOverlay runs the overlay full screen and returns its result.
func runOverlay(opts app.Options) (app.Result, error) {
	m, err := app.New(opts)
	if err != nil {
		return app.Result{}, err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return app.Result{}, fmt.Errorf("running overlay: %w", err)
	}

	fm, ok := final.(app.Model)
	if !ok {
		return app.Result{}, errors.New("unexpected final model")
	}
	return fm.Result(), nil
}

func newPickCmd(e *env) *cobra.Command {
	var (
		current string
		effort  string
		locked  bool
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a model and print it",
		Long: `Open the model switcher for an ad-hoc session and print the choice as
"model" or "model effort". Exits 1 when the switcher is closed without a choice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(current) == "" {
				current = e.cfg.Session.DefaultModel
			}
			eff, err := model.ParseEffort(effort)
			if err != nil {
				return err
			}

			var cache catalog.Cache
			if s, err := e.openStore(); err == nil {
				defer s.Close()
				cache = s
			} else {
				log.Warn().Err(err).Msg("catalog cache unavailable")
			}
			cat := buildCatalog(e.cfg.Catalog, credential.APIKey(), cache)

			res, err := runOverlay(app.Options{
				Session: picker.Session{
					CurrentModel:     current,
					CurrentEffort:    eff,
					HasPriorResponse: locked,
				},
				Catalog:      cat,
				Width:        e.cfg.Display.Width,
				FetchTimeout: time.Duration(e.cfg.Catalog.TimeoutSec) * time.Second,
			})
			if err != nil {
				return err
			}
			if !res.Selected {
				return errCancelled
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Selection.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&current, "model", "m", "", "current model (default from config)")
	cmd.Flags().StringVarP(&effort, "effort", "e", "", "current effort: low, medium or high")
	cmd.Flags().BoolVar(&locked, "locked", false, "behave as if the assistant already responded")
	return cmd
}
