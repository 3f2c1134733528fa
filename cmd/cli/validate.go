package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/parsers"
	"github.com/kosarica/basket-service/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Parse price-list files and report row errors",
	Long: `Parse one or more price-list files (CSV or XLSX) and report parsing
statistics. Files are then combined into a snapshot to catch conflicts
across files such as a product priced twice at the same store.`,
	Example: `  basket-service validate ./data/konzum.csv
  basket-service validate ./data/*.csv ./data/extra.xlsx --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type fileReport struct {
	File   string             `json:"file"`
	Result *types.ParseResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		reports []fileReport
		rows    []types.CatalogRow
		failed  bool
	)
	for _, path := range args {
		logger.Info().Str("file", path).Msg("Parsing file")
		res, err := parsers.ParseFile(path)
		if err != nil {
			reports = append(reports, fileReport{File: path, Error: err.Error()})
			failed = true
			continue
		}
		if len(res.Errors) > 0 && strictFiles {
			failed = true
		}
		reports = append(reports, fileReport{File: path, Result: res})
		rows = append(rows, res.Rows...)
	}

	var combineErr error
	if _, err := catalog.FromRows(rows); err != nil {
		combineErr = err
		failed = true
	}

	if outputFormat == "json" {
		out := map[string]any{"files": reports}
		if combineErr != nil {
			out["catalogError"] = combineErr.Error()
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			outputReportTable(r)
		}
		if combineErr != nil {
			fmt.Printf("\nCatalog error: %v\n", combineErr)
		}
	}

	if failed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func outputReportTable(r fileReport) {
	fmt.Printf("\nParse Results for %s\n", r.File)
	fmt.Println(strings.Repeat("-", 60))
	if r.Error != "" {
		fmt.Printf("Error: %s\n", r.Error)
		return
	}
	result := r.Result

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Total Rows\t%d\n", result.TotalRows)
	fmt.Fprintf(w, "Valid Rows\t%d\n", result.ValidRows)
	fmt.Fprintf(w, "Invalid Rows\t%d\n", result.TotalRows-result.ValidRows)
	fmt.Fprintf(w, "Errors\t%d\n", len(result.Errors))
	fmt.Fprintf(w, "Warnings\t%d\n", len(result.Warnings))
	w.Flush()

	if len(result.Errors) > 0 {
		fmt.Printf("\nFirst %d Errors:\n", min(len(result.Errors), 10))
		for i, e := range result.Errors {
			if i >= 10 {
				fmt.Printf("... and %d more errors\n", len(result.Errors)-10)
				break
			}
			rowNum := "-"
			if e.RowNumber != nil {
				rowNum = fmt.Sprintf("%d", *e.RowNumber)
			}
			field := "-"
			if e.Field != nil {
				field = *e.Field
			}
			fmt.Printf("Row %s, Field '%s': %s\n", rowNum, field, e.Message)
		}
	}

	if len(result.Rows) > 0 {
		fmt.Printf("\nSample Rows (first %d):\n", min(len(result.Rows), 5))
		for i, row := range result.Rows[:min(len(result.Rows), 5)] {
			fmt.Printf("%d. %s @ %s - %s\n", i+1, row.ProductName, row.StoreID, row.Price.StringFixed(2))
		}
	}
}
