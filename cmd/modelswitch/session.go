package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/model"
)

func newSessionCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored chat sessions",
	}
	cmd.AddCommand(
		newSessionNewCmd(e),
		newSessionListCmd(e),
		newSessionShowCmd(e),
		newSessionRespondCmd(e),
	)
	return cmd
}

func newSessionNewCmd(e *env) *cobra.Command {
	var (
		modelID string
		effort  string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelID == "" {
				modelID = e.cfg.Session.DefaultModel
			}
			eff, err := model.ParseEffort(effort)
			if err != nil {
				return err
			}

			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := s.CreateSession(context.Background(), model.Session{Model: modelID, Effort: eff})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model (default from config)")
	cmd.Flags().StringVarP(&effort, "effort", "e", "", "effort: low, medium or high")
	return cmd
}

func newSessionListCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sessions, err := s.ListSessions(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No sessions found. Create one with 'modelswitch session new'"))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tEFFORT\tRESPONSES\tCREATED")
			for _, sess := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					sess.ID, sess.Model, effortOrDash(sess.Effort), sess.ResponseCount,
					sess.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions to show, 0 for all")
	return cmd
}

func newSessionShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := s.GetSession(context.Background(), args[0])
			if err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}
}

func newSessionRespondCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "respond ID",
		Short: "Record an assistant response, which locks the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := s.RecordResponse(context.Background(), args[0])
			if err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}
}

func printSession(cmd *cobra.Command, sess *model.Session) {
	out := cmd.OutOrStdout()
	state := successStyle.Render("open")
	if sess.HasPriorResponse() {
		state = errorStyle.Render("locked")
	}

	fmt.Fprintf(out, "ID:        %s\n", sess.ID)
	fmt.Fprintf(out, "Model:     %s\n", sess.Model)
	fmt.Fprintf(out, "Effort:    %s\n", effortOrDash(sess.Effort))
	fmt.Fprintf(out, "Responses: %d (%s)\n", sess.ResponseCount, state)
	fmt.Fprintf(out, "Created:   %s\n", dimStyle.Render(sess.CreatedAt.Local().Format("2006-01-02 15:04:05")))
}

func effortOrDash(e model.Effort) string {
	if e == "" {
		return "-"
	}
	return string(e)
}
