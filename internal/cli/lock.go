package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/internal/lock"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

var lockForce bool

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect or manipulate the run lock",
	Long: `Inspect or manipulate the run lock.

The lock is a directory under the system temp directory whose mere
existence blocks further runs. It is never stolen automatically; if a
crashed run left it behind, "lock release --force" removes it.`,
}

var lockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the lock is held",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()

		mgr := lock.NewManager(settings.LockDir)
		st, err := mgr.Status()
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(st)
			return
		}
		if !st.Held {
			fmt.Printf("Lock free (%s)\n", st.Path)
			return
		}
		fmt.Printf("Lock held since %s, %s ago (%s)\n",
			st.Since.Format(time.RFC3339), time.Since(st.Since).Round(time.Second), st.Path)
	},
}

var lockAcquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Take the lock to fence off runs",
	Long: `Take the lock to fence off runs, for maintenance windows.

The lock stays held after this command exits; free it again with
"wardrobe lock release --force".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()

		mgr := lock.NewManager(settings.LockDir)
		if err := mgr.Acquire(); err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(map[string]string{"path": mgr.Path(), "state": "acquired"})
			return
		}
		fmt.Printf("Lock acquired (%s)\n", mgr.Path())
	},
}

var lockReleaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Free the lock",
	Long: `Free the lock.

Without --force this only works for the process that acquired it, which
a fresh command never is; --force removes the directory regardless, for
cleaning up after a crashed or fenced-off holder.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()

		mgr := lock.NewManager(settings.LockDir)
		if lockForce {
			if err := mgr.ForceRelease(); err != nil {
				fmtErr("%v", err)
				os.Exit(1)
			}
			if jsonOutput {
				outputJSON(map[string]string{"path": mgr.Path(), "state": "released"})
				return
			}
			fmt.Printf("Lock released (%s)\n", mgr.Path())
			return
		}

		err := mgr.Release()
		if errors.Is(err, errclass.ErrNotLocked) {
			fmtErr("%v (this process does not hold it; use --force to remove a leftover lock)", err)
			os.Exit(1)
		}
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	lockReleaseCmd.Flags().BoolVar(&lockForce, "force", false, "remove the lock even if another process created it")
	lockCmd.AddCommand(lockStatusCmd)
	lockCmd.AddCommand(lockAcquireCmd)
	lockCmd.AddCommand(lockReleaseCmd)
	rootCmd.AddCommand(lockCmd)
}
