package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardrobe-project/wardrobe/internal/doctor"
	"github.com/wardrobe-project/wardrobe/pkg/color"
	"github.com/wardrobe-project/wardrobe/pkg/model"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the installation health",
	Long: `Check the installation health.

Verifies that the backup tool is present and recent enough, inspects
the lock directory, validates the config file and rechecks the journal
chain. Exits 1 when any finding has severity error.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings()
		result := doctor.Run(cmd.Context(), settings)

		if jsonOutput {
			outputJSON(result)
		} else {
			for _, f := range result.Findings {
				fmt.Printf("  %s %s: %s\n", severityTag(f.Severity), f.Category, f.Description)
			}
			if result.Healthy {
				fmt.Println(color.Success("Everything looks healthy."))
			}
		}

		if !result.Healthy {
			os.Exit(1)
		}
	},
}

func severityTag(s model.Severity) string {
	tag := fmt.Sprintf("[%s]", s)
	switch s {
	case model.SeverityError:
		return color.Error(tag)
	case model.SeverityWarning:
		return color.Warning(tag)
	default:
		return color.Dim(tag)
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
