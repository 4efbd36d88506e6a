// cmd/tools/catalog-tool/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/clinical/resvech"

	"github.com/spf13/cobra"
)

var (
	catalogPath string
	ruleTable   string
)

var rootCmd = &cobra.Command{
	Use:           "catalog-tool",
	Short:         "Validate intervention catalogs and run assessments offline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog file, JSON or YAML (default: built-in catalog)")
	rootCmd.PersistentFlags().StringVarP(&ruleTable, "rule-table", "r", resvech.DefaultVersion, "Rule table version")

	rootCmd.AddCommand(validateCmd, assessCmd, batchCmd, tablesCmd, activitiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(catalogPath)
}

func newEngine() (*assessment.Engine, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	table, err := resvech.Lookup(ruleTable)
	if err != nil {
		return nil, err
	}
	return assessment.New(table, cat)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
