// Package cli wires the wardrobe commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/color"
	"github.com/wardrobe-project/wardrobe/pkg/config"
	"github.com/wardrobe-project/wardrobe/pkg/logging"
)

var (
	configFlag string
	jsonOutput bool
	noColor    bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "wardrobe",
		Short: "Wardrobe - a dressed-up front end for rdiff-backup",
		Long: `Wardrobe turns a declarative YAML file into rdiff-backup invocations.
Jobs inherit options and filters from templates, runs are serialized
through a lock directory, and every outcome lands in a tamper-evident
journal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.Init(noColor)
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (default ~/.config/wardrobe/config.yaml)")
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// fmtErr prints one error line to stderr, the prefix red on terminals.
func fmtErr(format string, args ...any) {
	prefix := "error:"
	if color.Enabled() {
		prefix = color.Error(prefix)
	}
	fmt.Fprintf(os.Stderr, prefix+" "+format+"\n", args...)
}

// outputJSON prints v as indented JSON on stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveSettings builds the runtime settings from defaults, the config
// file, the environment and the flags, then initializes logging from
// them. missing reports an absent config file; parse errors are fatal
// right here so every command reports them the same way.
func resolveSettings() (settings config.Settings, file *config.File, missing bool) {
	path, err := config.Path(configFlag)
	if err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
	file, err = config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmtErr("%v", err)
			os.Exit(1)
		}
		file, missing = &config.File{}, true
	}
	settings, err = config.Resolve(file)
	if err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
	settings.Config = path
	if verbose {
		settings.LogLevel = "debug"
	}
	if err := logging.Init(settings.LogLevel, settings.LogFormat); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
	return settings, file, missing
}

// loadSettings resolves the runtime settings, tolerating a missing
// config file. Commands that cannot work without one use requireConfig.
func loadSettings() (config.Settings, *config.File) {
	settings, file, _ := resolveSettings()
	return settings, file
}

// requireConfig resolves the runtime settings and insists on a config
// file being present.
func requireConfig() (config.Settings, *config.File) {
	settings, file, missing := resolveSettings()
	if missing {
		fmtErr("no config file at %s (create one with \"wardrobe config init\")", settings.Config)
		os.Exit(1)
	}
	return settings, file
}

// buildJobs materializes every configured job on top of a template that
// carries the runtime settings.
func buildJobs(settings config.Settings, file *config.File) map[string]*backup.Job {
	base := backup.NewJob()
	if settings.Tool != "" {
		base.SetTool(settings.Tool)
	}
	jobs, err := file.Materialize(base)
	if err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
	return jobs
}

// jobOrExit looks a job up by name, listing the configured ones when it
// is unknown.
func jobOrExit(jobs map[string]*backup.Job, name string) *backup.Job {
	job, ok := jobs[name]
	if !ok {
		names := make([]string, 0, len(jobs))
		for n := range jobs {
			names = append(names, n)
		}
		sort.Strings(names)
		if len(names) == 0 {
			fmtErr("unknown job %q (no jobs configured)", name)
		} else {
			fmtErr("unknown job %q (configured: %s)", name, strings.Join(names, ", "))
		}
		os.Exit(1)
	}
	return job
}

// placeString renders a place for display, never failing.
func placeString(p *backup.Place) string {
	if p == nil {
		return "<unset>"
	}
	return p.String()
}
