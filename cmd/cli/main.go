package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kosarica/basket-service/config"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/database"
	"github.com/kosarica/basket-service/internal/fetch"
	"github.com/kosarica/basket-service/internal/optimizer"
	"github.com/kosarica/basket-service/internal/parsers"
)

var (
	cfgFile      string
	catalogFiles []string
	strictFiles  bool
	outputFormat string
	cfg          *config.Config
	logger       *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "basket-service",
	Short: "Basket Service CLI - grocery catalog and basket pricing tool",
	Long: `A CLI tool for working with grocery price lists: validate CSV and XLSX
exports, import them into Postgres, browse the catalog and compare what a
shopping basket costs at each store against the cheapest multi-store split.`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringArrayVarP(&catalogFiles, "file", "f", nil, "price-list file to load instead of the configured catalog source (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&strictFiles, "strict", false, "reject price-list files with any invalid row")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional when files are passed explicitly
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	logger = initLogger()

	if cmd.Annotations["needs-db"] == "true" {
		if err := initDatabase(cmd.Context()); err != nil {
			return fmt.Errorf("database initialization failed: %w", err)
		}
		logger.Debug().Msg("Database connected")
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil && parsedLevel > level {
			level = parsedLevel
		}
	}

	// Logs go to stderr so table and JSON output stay clean
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func initDatabase(ctx context.Context) error {
	if cfg == nil {
		return fmt.Errorf("config required but not loaded")
	}
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if err := database.Connect(ctx, database.PoolConfig{
		URL:         dbURL,
		MaxConns:    cfg.Database.MaxConnections,
		MinConns:    cfg.Database.MinConnections,
		MaxLifetime: cfg.Database.MaxConnLifetime,
		MaxIdleTime: cfg.Database.MaxConnIdleTime,
	}); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return database.Migrate(ctx, database.Pool())
}

// loadCatalog loads the snapshot from --file flags, or from the configured
// source when none are given.
func loadCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	if len(catalogFiles) > 0 {
		return parsers.NewFileLoader(strictFiles, catalogFiles...).Load(ctx)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no --file given and config not loaded")
	}
	if cfg.Catalog.Source == "database" {
		if err := initDatabase(ctx); err != nil {
			return nil, err
		}
		return database.NewCatalogRepository(database.Pool()).Load(ctx)
	}
	fetcher := fetch.NewClient(cfg.Catalog.Fetch.ClientConfig())
	return parsers.NewFileLoader(cfg.Catalog.Strict || strictFiles, cfg.Catalog.Files...).
		WithFetcher(fetcher).
		Load(ctx)
}

func optimizerConfig() *optimizer.Config {
	if cfg == nil {
		return optimizer.Defaults()
	}
	return &cfg.Optimizer
}

func main() {
	defer database.Close()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
