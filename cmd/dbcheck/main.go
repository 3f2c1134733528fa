// Command dbcheck verifies that the configured Postgres is reachable and
// carries the catalog schema. It uses database/sql so it can run against a
// database before the service's own pool settings are known.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/kosarica/basket-service/config"
)

var catalogTables = []string{"stores", "products", "price_entries"}

func main() {
	dsn := flag.String("dsn", "", "database URL (default: DATABASE_URL or config)")
	timeout := flag.Duration("timeout", 5*time.Second, "connection timeout")
	flag.Parse()

	url := *dsn
	if url == "" {
		if _, err := config.Load(""); err == nil {
			url = config.GetDatabaseURL()
		}
	}
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		fmt.Println("No database URL: pass -dsn or set DATABASE_URL")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	missing, err := check(ctx, url)
	if err != nil {
		fmt.Println("Connection error:", err)
		os.Exit(1)
	}
	if len(missing) > 0 {
		fmt.Printf("Connected, but catalog tables are missing: %v\n", missing)
		os.Exit(1)
	}
	fmt.Println("Connection successful, catalog schema present")
}

// check pings the database and returns the catalog tables that do not exist.
func check(ctx context.Context, url string) ([]string, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	var missing []string
	for _, table := range catalogTables {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)`,
			table).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
