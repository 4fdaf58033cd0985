package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhongcheng0519/openstock/internal/scheduler"
	"github.com/zhongcheng0519/openstock/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the periodic maintenance jobs",
	Long: `Start the cron scheduler and block until interrupted. Currently the
only standing job is the instrument roster refresh.

Example:
  go run ./cmd/openstock scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.New(app.log)

	syncJob := jobs.NewSyncInstrumentsJob(app.service, app.cfg.SyncStocksCron, app.log)
	if err := sched.AddJob(syncJob); err != nil {
		return err
	}

	sched.Start()
	app.log.Info("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
