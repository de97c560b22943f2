package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/credential"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the catalog API key in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			var apiKey string
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("API Key").
						Description("Used to list the models available to you").
						EchoMode(huh.EchoModePassword).
						Value(&apiKey).
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return errors.New("API key is required")
							}
							return nil
						}),
				),
			)
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return errCancelled
				}
				return err
			}

			if err := credential.Set(credential.APIKeyName, strings.TrimSpace(apiKey)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ API key saved"))
			return nil
		},
	}
}
