package main

import (
	"github.com/spf13/cobra"

	"storytrace/internal/app"
	"storytrace/internal/config"
	"storytrace/internal/logging"
)

func runCmd() *cobra.Command {
	var watchInputs bool
	cmd := &cobra.Command{
		Use:          "run PROBLEMS STORIES OUTPUT_DIR",
		Short:        "Score every plausible problem/story pair and write the traceability matrix",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(cfgFile)
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger := logging.New(cfg.Logging.Level)

			application := app.New(cfg, logger)
			if watchInputs {
				return application.Watch(cmd.Context(), args[0], args[1], args[2])
			}
			return application.Run(cmd.Context(), args[0], args[1], args[2])
		},
	}
	cmd.Flags().BoolVar(&watchInputs, "watch", false, "re-run the pipeline when an input file changes")
	return cmd
}
