package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/internal/journal"
	"github.com/wardrobe-project/wardrobe/pkg/color"
	"github.com/wardrobe-project/wardrobe/pkg/model"
)

var (
	historyLimit  int
	historyVerify bool
	historyStats  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Show recorded runs, oldest first.

Examples:
  wardrobe history              # all recorded runs
  wardrobe history -n 10        # the last 10
  wardrobe history --verify     # recheck the journal's hash chain
  wardrobe history --stats      # aggregate counts instead of runs`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()
		jnl := journal.New(settings.Journal)

		switch {
		case historyVerify:
			count, err := jnl.Verify()
			if err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
			if jsonOutput {
				outputJSON(map[string]any{"records": count, "intact": true})
				return
			}
			fmt.Printf("%s %d record(s), chain intact\n", color.Success("ok"), count)

		case historyStats:
			stats, err := jnl.Stats()
			if err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
			if jsonOutput {
				outputJSON(stats)
				return
			}
			printStats(stats)

		default:
			records, err := jnl.Read(historyLimit)
			if err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
			if jsonOutput {
				if records == nil {
					records = []model.RunRecord{}
				}
				outputJSON(records)
				return
			}
			if len(records) == 0 {
				fmt.Println("No runs recorded.")
				return
			}
			for _, rec := range records {
				printRun(rec)
			}
		}
	},
}

func printRun(rec model.RunRecord) {
	outcome := color.Success(string(rec.Outcome))
	if rec.Outcome != model.OutcomeOK {
		outcome = color.Error(fmt.Sprintf("%s (exit %d)", rec.Outcome, rec.ExitCode))
	}
	fmt.Printf("%s  %s  %s  %s  %s\n",
		color.Dim(shortID(rec.ID)),
		rec.Timestamp.Local().Format("2006-01-02 15:04"),
		color.JobName(rec.Job),
		outcome,
		rec.Duration.Round(time.Second),
	)
}

func printStats(stats journal.Stats) {
	fmt.Printf("Runs: %d", stats.Runs)
	if stats.Runs > 0 {
		fmt.Printf(" (%d failed, %.0f%% ok)", stats.Failed, stats.SuccessRatio*100)
	}
	fmt.Println()
	fmt.Printf("Total time: %s (mean %s)\n",
		stats.TotalDuration.Round(time.Second), stats.MeanDuration.Round(time.Second))

	if len(stats.LastRun) == 0 {
		return
	}
	jobs := make([]string, 0, len(stats.LastRun))
	for job := range stats.LastRun {
		jobs = append(jobs, job)
	}
	sort.Strings(jobs)
	fmt.Println("Last run:")
	for _, job := range jobs {
		fmt.Printf("  %s  %s\n", color.JobName(job),
			stats.LastRun[job].Local().Format("2006-01-02 15:04"))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "limit number of entries (0 = all)")
	historyCmd.Flags().BoolVar(&historyVerify, "verify", false, "recheck the hash chain")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show aggregate statistics")
	rootCmd.AddCommand(historyCmd)
}
