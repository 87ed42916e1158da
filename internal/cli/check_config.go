package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/osse101/tombola/internal/config"
)

// RaffleSummary describes a validated prize table.
type RaffleSummary struct {
	Source      string             `json:"source"`
	Tiers       int                `json:"tiers"`
	TotalPrizes int                `json:"total_prizes"`
	FirstNumber int                `json:"first_number"`
	LastNumber  int                `json:"last_number"`
	Prizes      []config.PrizeTier `json:"prizes"`
}

// NewCheckConfigCommand creates the check-config command.
func NewCheckConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var rafflePath string

	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate a raffle prize table",
		Long: `Load and validate a YAML or JSON prize table and print a summary.

Without --raffle the built-in table is checked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckConfig(cmd.OutOrStdout(), rootOpts.Format, rafflePath)
		},
	}

	cmd.Flags().StringVar(&rafflePath, "raffle", "", "path to the prize table (.yaml, .yml or .json)")

	return cmd
}

func runCheckConfig(w io.Writer, format, path string) error {
	raffle, err := config.LoadRaffle(path)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextRaffle, err)
	}

	source := path
	if source == "" {
		source = MsgBuiltInSource
	}
	summary := RaffleSummary{
		Source:      source,
		Tiers:       len(raffle.Prizes),
		TotalPrizes: raffle.TotalPrizes(),
		FirstNumber: raffle.Numbers.Start,
		LastNumber:  raffle.Numbers.Start + raffle.Numbers.Count - 1,
		Prizes:      raffle.Prizes,
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintln(w, MsgConfigValid)
	fmt.Fprintf(w, "source:  %s\n", summary.Source)
	fmt.Fprintf(w, "tiers:   %d\n", summary.Tiers)
	fmt.Fprintf(w, "prizes:  %d\n", summary.TotalPrizes)
	fmt.Fprintf(w, "numbers: %d..%d\n", summary.FirstNumber, summary.LastNumber)
	for _, p := range summary.Prizes {
		fmt.Fprintf(w, "  %3d x %s\n", p.Count, p.Name)
	}
	return nil
}
