package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wardrobe-project/wardrobe/internal/journal"
	"github.com/wardrobe-project/wardrobe/internal/lock"
	"github.com/wardrobe-project/wardrobe/internal/runner"
	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/color"
	"github.com/wardrobe-project/wardrobe/pkg/config"
	"github.com/wardrobe-project/wardrobe/pkg/logging"
	"github.com/wardrobe-project/wardrobe/pkg/model"
	"github.com/wardrobe-project/wardrobe/pkg/webhook"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run <job>",
	Short: "Run a configured backup job",
	Long: `Run a configured backup job.

The command line is rendered from the config file, the run lock is held
for the duration, and the outcome lands in the journal either way.

Examples:
  wardrobe run host-a              # run the job
  wardrobe run host-a --dry-run    # only show what would run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, file := requireConfig()
		jobs := buildJobs(settings, file)
		job := jobOrExit(jobs, args[0])

		argv, err := job.RenderCommandLine()
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		if runDryRun {
			fmt.Println(shellJoin(argv))
			return
		}

		rec, runErr := executeJob(cmd.Context(), settings, args[0], job, argv)
		if runErr != nil {
			fmtErr("%v", runErr)
			if rec.ExitCode > 0 {
				os.Exit(rec.ExitCode)
			}
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(rec)
			return
		}
		fmt.Printf("%s %s (%s)\n", color.Success("ok"), color.JobName(args[0]),
			rec.Duration.Round(time.Millisecond))
	},
}

// executeJob holds the lock for the duration of the run, then journals
// and notifies whatever happened. The returned record carries the exit
// code for pass-through.
func executeJob(ctx context.Context, settings config.Settings, name string, job *backup.Job, argv []string) (model.RunRecord, error) {
	mgr := lock.NewManager(settings.LockDir)
	if err := mgr.Acquire(); err != nil {
		return model.RunRecord{ExitCode: -1}, cerr.Wrapf(err, "run %s", name)
	}
	defer mgr.ReleaseIfHeld()

	log := logging.Named("run")
	start := time.Now()
	runErr := job.Run(ctx, &runner.Executor{Logger: log})

	rec := model.RunRecord{
		Job:         name,
		CommandLine: argv,
		Outcome:     model.OutcomeOK,
		Duration:    time.Since(start),
	}
	if runErr != nil {
		rec.Outcome = model.OutcomeFailed
		rec.ExitCode = runner.ExitCode(runErr)
	}

	filled, err := journal.New(settings.Journal).Append(rec)
	if err != nil {
		log.Warn("journal append failed", zap.Error(err))
	} else {
		rec = filled
	}

	ev := webhook.Event{
		RunID:    rec.ID,
		Job:      rec.Job,
		Outcome:  rec.Outcome,
		ExitCode: rec.ExitCode,
		Duration: rec.Duration,
	}
	if !rec.Timestamp.IsZero() {
		ev.Timestamp = rec.Timestamp.UTC().Format(time.RFC3339)
	}
	_ = webhook.New(settings.WebhookURL, settings.WebhookSecret).Notify(ctx, ev)

	return rec, runErr
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print the command line and exit")
	rootCmd.AddCommand(runCmd)
}
