// cmd/tools/catalog-tool/commands.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/clinical/resvech"
	"woundcare-workers/internal/models"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Load a catalog and report every problem in it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		catalogPath = args[0]
	}
	out := cmd.OutOrStdout()
	cat, err := loadCatalog()
	if err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			for _, p := range loadErr.Problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			return fmt.Errorf("catalog invalid: %d problem(s)", len(loadErr.Problems))
		}
		return err
	}

	fmt.Fprintf(out, "catalog %s: %d products OK\n", cat.Version(), cat.Len())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tALIGNMENT")
	for _, p := range cat.Products() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Alignment)
	}
	return tw.Flush()
}

var (
	paramsJSON string
	tissueType string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess one wound and print the result as JSON",
	Example: `  catalog-tool assess --params '{"size":4,"depth":1,"edges":3,"tissueType":3,"exudate":2,"infectionInflammation":5}'
  catalog-tool assess --tissue-type SLOUGH`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&paramsJSON, "params", "p", "", "Wound parameters as a JSON object")
	assessCmd.Flags().StringVarP(&tissueType, "tissue-type", "t", "", "Categorical tissue type")
}

func runAssess(cmd *cobra.Command, _ []string) error {
	if paramsJSON == "" && tissueType == "" {
		return errors.New("one of --params or --tissue-type is required")
	}

	var in assessment.Input
	if paramsJSON != "" {
		params, err := models.DecodeParametersStrict(strings.NewReader(paramsJSON))
		if err != nil {
			return fmt.Errorf("--params: %w", err)
		}
		in.Parameters = params
	}
	in.TissueType = tissueType

	engine, err := newEngine()
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), engine.Assess(in))
}

var (
	batchInput       string
	batchParallelism int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess a JSON array of observations concurrently",
	Long: `Reads a JSON array of {"parameters": {...}, "tissueType": "..."} objects
and prints the results in input order. Use --input - to read stdin.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "-", "Input file, or - for stdin")
	batchCmd.Flags().IntVar(&batchParallelism, "parallelism", 4, "Maximum concurrent assessments (0 for unbounded)")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	var r io.Reader = cmd.InOrStdin()
	if batchInput != "-" {
		f, err := os.Open(batchInput)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var inputs []assessment.Input
	if err := json.NewDecoder(r).Decode(&inputs); err != nil {
		return fmt.Errorf("decode batch input: %w", err)
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt)
	defer stop()
	results, err := engine.AssessBatch(ctx, inputs, batchParallelism)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), results)
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the rule tables and their prognosis bands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range resvech.Tables() {
			marker := ""
			if t.Version == resvech.DefaultVersion {
				marker = " (default)"
			}
			fmt.Fprintf(tw, "%s%s\tscale %s\tinfection > %d\n", t.Version, marker, t.Scale.Name, t.InfectionCutoff)
			for _, b := range t.Bands {
				fmt.Fprintf(tw, "  %s\t%d-%d\t%s\n", b.Prognosis, b.Min, b.Max, b.Description)
			}
		}
		return tw.Flush()
	},
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
