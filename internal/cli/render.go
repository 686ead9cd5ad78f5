package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var renderQuote bool

var renderCmd = &cobra.Command{
	Use:   "render <job>",
	Short: "Print the command line a job would run",
	Long: `Print the command line a job would run, without touching the lock
or the journal.

One token per line by default; --quote prints a single shell-safe line
for copy-pasting.`,
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

		switch {
		case jsonOutput:
			outputJSON(argv)
		case renderQuote:
			fmt.Println(shellJoin(argv))
		default:
			for _, tok := range argv {
				fmt.Println(tok)
			}
		}
	},
}

// shellJoin renders argv as one POSIX shell line. Plain tokens stay
// bare, everything else is single-quoted.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$&|;<>()*?[]#~`{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func init() {
	renderCmd.Flags().BoolVar(&renderQuote, "quote", false, "print one shell-quoted line")
	rootCmd.AddCommand(renderCmd)
}
