package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reembedCmd)
}

var reembedCmd = &cobra.Command{
	Use:   "reembed [alias...]",
	Short: "Regenerate stored embeddings",
	Long: `Regenerate embeddings for the given venues, or for every stored venue
when no alias is given. Failures are reported per venue.

Examples:
  venuectl reembed
  venuectl reembed tartine-bakery-san-francisco sightglass-coffee-san-francisco`,
	RunE: runReembed,
}

// ReembedItem is one line of reembed output.
type ReembedItem struct {
	Alias string `json:"alias"`
	Error string `json:"error,omitempty"`
}

// ReembedResult is the JSON output of the reembed command.
type ReembedResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Items     []ReembedItem `json:"items"`
}

func runReembed(cmd *cobra.Command, args []string) error {
	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := client.Regenerate(cmd.Context(), args...)
	if err != nil {
		return err
	}

	out := ReembedResult{
		Total:     report.Summary.Total,
		Succeeded: report.Summary.Succeeded,
		Failed:    report.Summary.Failed,
		Items:     make([]ReembedItem, len(report.Items)),
	}
	for i, it := range report.Items {
		out.Items[i] = ReembedItem{Alias: it.Alias}
		if it.Err != nil {
			out.Items[i].Error = it.Err.Error()
		}
	}

	if humanOutput {
		outputHuman("Regenerated %d of %d embeddings\n", out.Succeeded, out.Total)
		for _, it := range out.Items {
			if it.Error != "" {
				outputHuman("  %s: %s\n", it.Alias, it.Error)
			}
		}
		return nil
	}
	return outputJSON(out)
}
