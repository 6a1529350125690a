package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/services/gemini"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models supported by the managed provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			configured := cfg.Managed.Model
			if configured == "" {
				configured = gemini.DefaultModel
			}
			models := gemini.Models()
			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"provider":   config.ProviderManaged,
					"models":     models,
					"default":    gemini.DefaultModel,
					"configured": configured,
				})
			}
			rows := make([][]string, 0, len(models))
			for _, model := range models {
				rows = append(rows, []string{model, yesNo(model == gemini.DefaultModel), yesNo(model == configured)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable([]column{leftCol("Model"), leftCol("Default"), leftCol("Configured")}, rows))
			fmt.Fprintln(out)
			if cfg.Provider.Kind == config.ProviderCompatible {
				fmt.Fprintf(out, "Active provider is compatible (%s); any model name it serves is accepted.\n", cfg.Compatible.BaseURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
