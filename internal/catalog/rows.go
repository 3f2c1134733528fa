package catalog

import (
	"fmt"

	"github.com/kosarica/basket-service/internal/types"
)

// FromRows assembles a snapshot from imported price-list rows. Store and
// product columns are taken from the first row that mentions each ID; later
// rows only contribute their price entry.
func FromRows(rows []types.CatalogRow) (*Snapshot, error) {
	var (
		stores   []Store
		products []Product
		entries  = make([]PriceEntry, 0, len(rows))
		seenS    = make(map[string]bool)
		seenP    = make(map[string]bool)
	)

	for _, r := range rows {
		if !seenS[r.StoreID] {
			seenS[r.StoreID] = true
			st := Store{
				ID:           r.StoreID,
				Name:         r.StoreName,
				DistanceKm:   r.DistanceKm,
				OpeningHours: r.OpeningHours,
			}
			if r.Latitude != nil && r.Longitude != nil {
				st.Location = &Location{Latitude: *r.Latitude, Longitude: *r.Longitude}
			}
			stores = append(stores, st)
		}

		if !seenP[r.ProductID] {
			seenP[r.ProductID] = true
			nutri, err := ParseGrade(r.NutriGrade)
			if err != nil {
				return nil, fmt.Errorf("row %d: nutri grade: %w", r.RowNumber, err)
			}
			eco, err := ParseGrade(r.EcoGrade)
			if err != nil {
				return nil, fmt.Errorf("row %d: eco grade: %w", r.RowNumber, err)
			}
			products = append(products, Product{
				ID:         r.ProductID,
				Name:       r.ProductName,
				Brand:      r.Brand,
				Category:   r.Category,
				Barcode:    r.Barcode,
				NutriGrade: nutri,
				EcoGrade:   eco,
			})
		}

		entry := PriceEntry{
			ProductID: r.ProductID,
			StoreID:   r.StoreID,
			Price:     r.Price,
			Available: r.Available,
		}
		if r.UpdatedAt != nil {
			entry.UpdatedAt = *r.UpdatedAt
		}
		if r.PromoType != "" {
			kind, err := ParsePromotionKind(r.PromoType)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r.RowNumber, err)
			}
			promo := &Promotion{Kind: kind}
			if r.PromoValue != nil {
				promo.Value = *r.PromoValue
			}
			if r.PromoUntil != nil {
				promo.ValidUntil = *r.PromoUntil
			}
			entry.Promotion = promo
		}
		entries = append(entries, entry)
	}

	return NewSnapshot(stores, products, entries)
}

// ToRows flattens a snapshot back into one row per price entry, in store
// order. Used when exporting or re-importing into the database.
func ToRows(s *Snapshot) []types.CatalogRow {
	rows := make([]types.CatalogRow, 0, s.Stats().EntryCount)
	n := 0
	for _, st := range s.stores {
		for _, p := range s.products {
			e, ok := s.PriceEntry(p.ID, st.ID)
			if !ok {
				continue
			}
			n++
			row := types.CatalogRow{
				RowNumber:    n,
				StoreID:      st.ID,
				StoreName:    st.Name,
				DistanceKm:   st.DistanceKm,
				OpeningHours: st.OpeningHours,
				ProductID:    p.ID,
				ProductName:  p.Name,
				Brand:        p.Brand,
				Category:     p.Category,
				Barcode:      p.Barcode,
				NutriGrade:   string(p.NutriGrade),
				EcoGrade:     string(p.EcoGrade),
				Price:        e.Price,
				Available:    e.Available,
			}
			if st.Location != nil {
				lat, lng := st.Location.Latitude, st.Location.Longitude
				row.Latitude, row.Longitude = &lat, &lng
			}
			if !e.UpdatedAt.IsZero() {
				t := e.UpdatedAt
				row.UpdatedAt = &t
			}
			if e.Promotion != nil {
				v := e.Promotion.Value
				row.PromoType = string(e.Promotion.Kind)
				row.PromoValue = &v
				if !e.Promotion.ValidUntil.IsZero() {
					until := e.Promotion.ValidUntil
					row.PromoUntil = &until
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}
