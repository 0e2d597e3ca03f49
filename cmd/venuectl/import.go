package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	businessuc "github.com/kailas-cloud/venuedex/internal/usecase/business"
	venuedex "github.com/kailas-cloud/venuedex/pkg/sdk"
)

var (
	importEmbed  bool
	importDryRun bool
)

// maxLineBytes bounds one JSONL record; listings with photos and hours stay well below it.
const maxLineBytes = 1 << 20

func init() {
	importCmd.Flags().BoolVar(&importEmbed, "embed", false, "Generate embeddings for the imported venues")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and validate without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Import venues from a JSON Lines file",
	Long: `Import venues from a JSON Lines file, one business record per line.

Records are written in batches. With --embed, embeddings are regenerated for
the imported venues afterwards.

Examples:
  venuectl import bookmarks.jsonl
  venuectl import bookmarks.jsonl --embed
  venuectl import bookmarks.jsonl --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Embedded int      `json:"embedded,omitempty"`
	Errors   []string `json:"errors"`
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	records, parseErrs, err := readRecords(f)
	if err != nil {
		return err
	}
	res := ImportResult{Skipped: len(parseErrs), Errors: errorStrings(parseErrs)}

	if importDryRun {
		res.Imported = len(records)
		return printImport(res)
	}

	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	if err := importRecords(cmd.Context(), client, records, &res); err != nil {
		return err
	}
	return printImport(res)
}

// upserter is the slice of the SDK client the importer needs.
type upserter interface {
	UpsertMany(ctx context.Context, bs []venuedex.Business) error
	Regenerate(ctx context.Context, aliases ...string) (venuedex.RegenerateReport, error)
}

func importRecords(ctx context.Context, c upserter, records []venuedex.Business, res *ImportResult) error {
	aliases := make([]string, 0, len(records))
	for _, chunk := range chunk(records, businessuc.MaxBatchSize) {
		if err := c.UpsertMany(ctx, chunk); err != nil {
			return fmt.Errorf("after %d imported: %w", res.Imported, err)
		}
		res.Imported += len(chunk)
		for _, b := range chunk {
			aliases = append(aliases, b.Alias)
		}
	}

	if !importEmbed || len(aliases) == 0 {
		return nil
	}
	report, err := c.Regenerate(ctx, aliases...)
	if err != nil {
		return fmt.Errorf("regenerate embeddings: %w", err)
	}
	res.Embedded = report.Summary.Succeeded
	for _, it := range report.Items {
		if it.Err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", it.Alias, it.Err))
		}
	}
	return nil
}

func printImport(res ImportResult) error {
	if !humanOutput {
		return outputJSON(res)
	}
	verb := "Imported"
	if importDryRun {
		verb = "Would import"
	}
	outputHuman("%s %d venues, skipped %d\n", verb, res.Imported, res.Skipped)
	if res.Embedded > 0 {
		outputHuman("Embedded %d venues\n", res.Embedded)
	}
	for _, e := range res.Errors {
		outputHuman("  %s\n", e)
	}
	return nil
}

// readRecords parses one business per non-blank line. Malformed or invalid
// lines are collected and skipped; only read failures abort.
func readRecords(r io.Reader) ([]venuedex.Business, []error, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		records []venuedex.Business
		errs    []error
		seen    = make(map[string]int)
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var b venuedex.Business
		if err := json.Unmarshal(line, &b); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		b.FillGeoPoint()
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		if prev, dup := seen[b.Alias]; dup {
			records[prev] = b
			continue
		}
		seen[b.Alias] = len(records)
		records = append(records, b)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return records, errs, nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
