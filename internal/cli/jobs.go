package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/pkg/color"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List configured jobs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, file := requireConfig()
		jobs := buildJobs(settings, file)

		names := file.JobNames()
		if len(names) == 0 {
			fmt.Println("No jobs configured.")
			return
		}

		if jsonOutput {
			type jobInfo struct {
				Name        string `json:"name"`
				Extends     string `json:"extends,omitempty"`
				Tool        string `json:"tool"`
				Source      string `json:"source"`
				Destination string `json:"destination"`
			}
			list := make([]jobInfo, 0, len(names))
			for _, name := range names {
				job := jobs[name]
				list = append(list, jobInfo{
					Name:        name,
					Extends:     file.Jobs[name].Extends,
					Tool:        job.Tool(),
					Source:      placeString(job.Source()),
					Destination: placeString(job.Destination()),
				})
			}
			outputJSON(list)
			return
		}

		for _, name := range names {
			line := color.JobName(name)
			if parent := file.Jobs[name].Extends; parent != "" {
				line += color.Dim(" (extends " + parent + ")")
			}
			fmt.Println(line)
			job := jobs[name]
			fmt.Printf("  %s %s %s\n",
				placeString(job.Source()), color.Dim("->"), placeString(job.Destination()))
		}
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
