package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/credential"
	"github.com/nhle/modelswitch/internal/picker"
)

func newModelsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Print the models in switcher order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cache catalog.Cache
			if s, err := e.openStore(); err == nil {
				defer s.Close()
				cache = s
			}
			cat := buildCatalog(e.cfg.Catalog, credential.APIKey(), cache)

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.cfg.Catalog.TimeoutSec)*time.Second)
			defer cancel()

			ids, err := cat.AvailableModels(ctx)
			if err != nil {
				return fmt.Errorf("loading models: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, it := range picker.BuildModelItems(ids, cat.Recommended()) {
				fmt.Fprintln(out, it.Label)
			}
			return nil
		},
	}
}
