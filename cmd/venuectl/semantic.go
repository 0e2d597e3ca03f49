package main

import (
	"github.com/spf13/cobra"

	venuedex "github.com/kailas-cloud/venuedex/pkg/sdk"
)

var (
	semanticCollection string
	semanticLimit      int
	semanticMinScore   float64
)

func init() {
	semanticCmd.Flags().StringVar(&semanticCollection, "collection", "businesses", "Collection to search")
	semanticCmd.Flags().IntVar(&semanticLimit, "limit", 20, "Maximum results to return (1-100)")
	semanticCmd.Flags().Float64Var(&semanticMinScore, "min-score", 0, "Drop results scoring at or below this value")
	rootCmd.AddCommand(semanticCmd)
}

var semanticCmd = &cobra.Command{
	Use:   "semantic <query>",
	Short: "Vector similarity search over a collection",
	Long: `Embed the query and return the most similar stored documents.

Examples:
  venuectl semantic "cozy place to read"
  venuectl semantic "natural wine" --limit 5 --min-score 0.4`,
	Args: cobra.ExactArgs(1),
	RunE: runSemantic,
}

func runSemantic(cmd *cobra.Command, args []string) error {
	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	docs, err := client.VectorSearch(cmd.Context(), semanticCollection, args[0], semanticLimit, semanticMinScore)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(docs)
	}
	if len(docs) == 0 {
		outputHuman("No documents above the threshold\n")
		return nil
	}
	for i, d := range docs {
		label := d.ID
		if b, err := venuedex.Decode[venuedex.Business](d); err == nil && b.Alias != "" {
			label = b.Alias
		}
		outputHuman("[%d] %.3f  %s\n", i+1, d.Score, label)
	}
	return nil
}
