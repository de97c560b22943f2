package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/app"
	"github.com/nhle/modelswitch/internal/credential"
	"github.com/nhle/modelswitch/internal/model"
	"github.com/nhle/modelswitch/internal/picker"
	"github.com/nhle/modelswitch/internal/store"
)

func newSwitchCmd(e *env) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Change the model of a stored session",
		Long:  "Open the model switcher for a stored session (the latest one by default) and save the choice.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := loadSession(ctx, s, sessionID)
			if err != nil {
				return err
			}

			res, err := runOverlay(app.Options{
				Session:      sessionState(sess),
				Catalog:      buildCatalog(e.cfg.Catalog, credential.APIKey(), s),
				Store:        s,
				SessionID:    sess.ID,
				Width:        e.cfg.Display.Width,
				FetchTimeout: time.Duration(e.cfg.Catalog.TimeoutSec) * time.Second,
			})
			if err != nil {
				return err
			}
			if res.ErrLocked() {
				return fmt.Errorf("session %s already has a response; start a new session to use a different model", sess.ID)
			}
			if res.Err != nil {
				return res.Err
			}
			if !res.Selected {
				return errCancelled
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ "+sess.ID+" now uses "+res.Selection.String()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session ID (default latest)")
	return cmd
}

// loadSession returns the session with id, or the latest one when id is
// empty.
func loadSession(ctx context.Context, s store.Store, id string) (*model.Session, error) {
	if id != "" {
		return s.GetSession(ctx, id)
	}

	sess, err := s.GetLatestSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, errors.New("no sessions yet; create one with 'modelswitch session new'")
	}
	return sess, err
}

// sessionState maps a stored session to the switcher's view of it.
func sessionState(sess *model.Session) picker.Session {
	return picker.Session{
		CurrentModel:     sess.Model,
		CurrentEffort:    sess.Effort,
		HasPriorResponse: sess.HasPriorResponse(),
	}
}
