// Package schedule implements the schedule command: it keeps the process
// alive and reruns the full crawl on a cron schedule.
package schedule

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/brandmon/cmd/common"
	"github.com/jonesrussell/brandmon/internal/pipeline"
)

// defaultSpec runs the crawl once a day at 03:00.
const defaultSpec = "0 3 * * *"

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	var spec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the crawl on a cron schedule",
		Long: `Run the full crawl repeatedly according to a cron expression. The process
stays in the foreground until interrupted; a run already in progress finishes
before shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scheduler := cron.New()

			_, err = scheduler.AddFunc(spec, func() {
				resources, pipeErr := common.NewPipeline(deps)
				if pipeErr != nil {
					deps.Logger.Error("failed to build pipeline", "error", pipeErr.Error())
					return
				}
				defer resources.Close()

				if _, runErr := resources.Pipeline.Run(ctx, pipeline.Options{}); runErr != nil {
					deps.Logger.Error("scheduled crawl failed", "error", runErr.Error())
				}
			})
			if err != nil {
				return fmt.Errorf("invalid cron spec %q: %w", spec, err)
			}

			deps.Logger.Info("scheduler started", "cron", spec)
			scheduler.Start()

			<-ctx.Done()

			deps.Logger.Info("shutdown signal received, waiting for running job")
			<-scheduler.Stop().Done()

			return nil
		},
	}

	cmd.Flags().StringVar(&spec, "cron", defaultSpec, "cron expression for crawl runs")

	return cmd
}
