package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/database"
	"github.com/kosarica/basket-service/internal/parsers/xlsx"
)

var (
	importReplace bool
	exportPath    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import price-list files into the database",
	Long: `Load the catalog from --file flags (or the configured files) and upsert
every store, product and price entry into Postgres. With --replace the
catalog tables are truncated first, so entries missing from the files are
dropped.`,
	Example: `  basket-service import -f ./data/konzum.csv -f ./data/lidl.xlsx
  basket-service import -f ./data/all.csv --replace`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"needs-db": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(catalogFiles) == 0 {
			if cfg == nil || len(cfg.Catalog.Files) == 0 {
				return fmt.Errorf("no files to import")
			}
			catalogFiles = cfg.Catalog.Files
		}
		snap, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		repo := database.NewCatalogRepository(database.Pool())
		if importReplace {
			if err := repo.Clear(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("Cleared catalog tables")
		}
		res, err := repo.Import(cmd.Context(), catalog.ToRows(snap))
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		logger.Info().
			Int("stores", res.Stores).
			Int("products", res.Products).
			Int("entries", res.Entries).
			Msg("Catalog imported")
		if outputFormat == "json" {
			return printJSON(res)
		}
		fmt.Printf("Imported %d stores, %d products, %d price entries\n", res.Stores, res.Products, res.Entries)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog to an XLSX file",
	Example: `  basket-service export --out catalog.xlsx
  basket-service export -f ./data/konzum.csv -f ./data/lidl.csv --out merged.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		data, err := xlsx.Write(catalog.ToRows(snap))
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportPath, err)
		}
		stats := snap.Stats()
		fmt.Printf("Wrote %d price entries to %s\n", stats.EntryCount, exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "truncate catalog tables before importing")
	exportCmd.Flags().StringVar(&exportPath, "out", "catalog.xlsx", "output XLSX path")
}
