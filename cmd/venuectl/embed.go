package main

import (
	"github.com/spf13/cobra"
)

var embedRecord bool

func init() {
	embedCmd.Flags().BoolVar(&embedRecord, "record", false,
		"Treat the argument as a business alias and store its regenerated embedding")
	rootCmd.AddCommand(embedCmd)
}

var embedCmd = &cobra.Command{
	Use:   "embed <text|alias>",
	Short: "Generate an embedding for text or a stored venue",
	Long: `Generate an embedding.

Examples:
  venuectl embed "late night ramen"
  venuectl embed --record la-taqueria-san-francisco-2`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

// EmbedResult is the JSON output of the embed command.
type EmbedResult struct {
	Alias      string    `json:"alias,omitempty"`
	Dimensions int       `json:"dimensions"`
	Embedding  []float32 `json:"embedding"`
}

func runEmbed(cmd *cobra.Command, args []string) error {
	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	var res EmbedResult
	if embedRecord {
		res.Alias = args[0]
		res.Embedding, err = client.EmbedRecord(cmd.Context(), args[0])
	} else {
		res.Embedding, err = client.EmbedText(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	res.Dimensions = len(res.Embedding)

	if humanOutput {
		outputHuman("%d dimensions\n", res.Dimensions)
		return nil
	}
	return outputJSON(res)
}
