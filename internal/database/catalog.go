package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/types"
)

// ImportResult summarizes an Import call.
type ImportResult struct {
	Stores   int `json:"stores"`
	Products int `json:"products"`
	Entries  int `json:"entries"`
}

// CatalogRepository reads and writes the catalog tables. It satisfies
// catalog.Loader.
type CatalogRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a repository over db.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: log.With().Str("component", "catalog_repository").Logger(),
	}
}

var _ catalog.Loader = (*CatalogRepository)(nil)

// Load reads stores, products and prices concurrently and builds a snapshot.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Snapshot, error) {
	var (
		stores   []catalog.Store
		products []catalog.Product
		entries  []catalog.PriceEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = r.loadStores(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = r.loadProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = r.loadEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap, err := catalog.NewSnapshot(stores, products, entries)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog in database: %w", err)
	}
	return snap, nil
}

func (r *CatalogRepository) loadStores(ctx context.Context) ([]catalog.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, latitude, longitude, distance_km, opening_hours
		FROM stores
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying stores: %w", err)
	}
	defer rows.Close()

	var stores []catalog.Store
	for rows.Next() {
		var (
			st       catalog.Store
			lat, lng *float64
		)
		if err := rows.Scan(&st.ID, &st.Name, &lat, &lng, &st.DistanceKm, &st.OpeningHours); err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		if lat != nil && lng != nil {
			st.Location = &catalog.Location{Latitude: *lat, Longitude: *lng}
		}
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

func (r *CatalogRepository) loadProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, brand, category, COALESCE(barcode, ''), nutri_grade, eco_grade
		FROM products
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var (
			p          catalog.Product
			nutri, eco string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Barcode, &nutri, &eco); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		p.NutriGrade, _ = catalog.ParseGrade(nutri)
		p.EcoGrade, _ = catalog.ParseGrade(eco)
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *CatalogRepository) loadEntries(ctx context.Context) ([]catalog.PriceEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, store_id, price::text, available,
		       promo_type, promo_value::text, promo_until, updated_at
		FROM price_entries
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying price entries: %w", err)
	}
	defer rows.Close()

	var entries []catalog.PriceEntry
	for rows.Next() {
		var (
			e          catalog.PriceEntry
			price      string
			promoType  *string
			promoValue *string
			promoUntil *time.Time
			updatedAt  *time.Time
		)
		if err := rows.Scan(&e.ProductID, &e.StoreID, &price, &e.Available,
			&promoType, &promoValue, &promoUntil, &updatedAt); err != nil {
			return nil, fmt.Errorf("error scanning price entry: %w", err)
		}
		if e.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("price entry %s/%s: %w", e.ProductID, e.StoreID, err)
		}
		if updatedAt != nil {
			e.UpdatedAt = *updatedAt
		}
		if promoType != nil && *promoType != "" {
			kind, err := catalog.ParsePromotionKind(*promoType)
			if err != nil {
				r.logger.Warn().Err(err).
					Str("product_id", e.ProductID).
					Str("store_id", e.StoreID).
					Msg("Ignoring unknown promotion")
			} else {
				promo := &catalog.Promotion{Kind: kind}
				if promoValue != nil {
					promo.Value, _ = decimal.NewFromString(*promoValue)
				}
				if promoUntil != nil {
					promo.ValidUntil = *promoUntil
				}
				e.Promotion = promo
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import upserts price-list rows in a single transaction. Store and product
// columns come from the first row that mentions each ID.
func (r *CatalogRepository) Import(ctx context.Context, rows []types.CatalogRow) (*ImportResult, error) {
	// Validate the rows as a whole before touching the database.
	if _, err := catalog.FromRows(rows); err != nil {
		return nil, fmt.Errorf("invalid rows: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res := &ImportResult{}
	batch := &pgx.Batch{}
	seenS := make(map[string]bool)
	seenP := make(map[string]bool)

	for _, row := range rows {
		if !seenS[row.StoreID] {
			seenS[row.StoreID] = true
			res.Stores++
			batch.Queue(`
				INSERT INTO stores (id, name, latitude, longitude, distance_km, opening_hours)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					latitude = EXCLUDED.latitude,
					longitude = EXCLUDED.longitude,
					distance_km = EXCLUDED.distance_km,
					opening_hours = EXCLUDED.opening_hours,
					updated_at = NOW()
			`, row.StoreID, row.StoreName, row.Latitude, row.Longitude, row.DistanceKm, row.OpeningHours)
		}
		if !seenP[row.ProductID] {
			seenP[row.ProductID] = true
			res.Products++
			batch.Queue(`
				INSERT INTO products (id, name, brand, category, barcode, nutri_grade, eco_grade)
				VALUES ($1, $2, $3, $4, NULLIF($5, ''), UPPER($6), UPPER($7))
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					brand = EXCLUDED.brand,
					category = EXCLUDED.category,
					barcode = EXCLUDED.barcode,
					nutri_grade = EXCLUDED.nutri_grade,
					eco_grade = EXCLUDED.eco_grade,
					updated_at = NOW()
			`, row.ProductID, row.ProductName, row.Brand, row.Category, row.Barcode, row.NutriGrade, row.EcoGrade)
		}
	}

	for _, row := range rows {
		row := row // per-iteration copy: &row.PromoType is retained by the batch
		res.Entries++
		var promoType, promoValue *string
		if row.PromoType != "" {
			promoType = &row.PromoType
			if row.PromoValue != nil {
				v := row.PromoValue.String()
				promoValue = &v
			}
		}
		batch.Queue(`
			INSERT INTO price_entries (
				product_id, store_id, price, available,
				promo_type, promo_value, promo_until, updated_at
			) VALUES ($1, $2, $3::text::numeric, $4, $5, $6::text::numeric, $7, $8)
			ON CONFLICT (product_id, store_id) DO UPDATE SET
				price = EXCLUDED.price,
				available = EXCLUDED.available,
				promo_type = EXCLUDED.promo_type,
				promo_value = EXCLUDED.promo_value,
				promo_until = EXCLUDED.promo_until,
				updated_at = EXCLUDED.updated_at
		`, row.ProductID, row.StoreID, row.Price.String(), row.Available,
			promoType, promoValue, row.PromoUntil, row.UpdatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("failed to import statement %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	r.logger.Info().
		Int("stores", res.Stores).
		Int("products", res.Products).
		Int("entries", res.Entries).
		Msg("Catalog rows imported")
	return res, nil
}

// Clear removes every catalog record.
func (r *CatalogRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE price_entries, products, stores`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}
