package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/kosarica/basket-service/internal/pkg/ids"
	"github.com/kosarica/basket-service/internal/storage"
)

// ErrNotFound is returned when no basket is stored under an ID.
var ErrNotFound = errors.New("basket not found")

const (
	keyPrefix = "baskets/"
	idPrefix  = "bsk"
	lockCount = 64
)

// Repository persists baskets as JSON blobs. Update serializes writers of the
// same basket within one process; separate processes sharing a store do not
// coordinate.
type Repository struct {
	store storage.Storage
	locks [lockCount]sync.Mutex
}

// NewRepository creates a repository on top of a blob store.
func NewRepository(store storage.Storage) *Repository {
	return &Repository{store: store}
}

// NewID returns a fresh basket ID.
func NewID() string {
	return ids.New(idPrefix)
}

func key(id string) string {
	return keyPrefix + id + ".json"
}

// Save validates and writes the basket, assigning an ID if it has none.
func (r *Repository) Save(ctx context.Context, b *Basket) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	if strings.ContainsAny(b.ID, "/\\") {
		return fmt.Errorf("invalid basket id %q", b.ID)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode basket %s: %w", b.ID, err)
	}
	if err := r.store.Put(ctx, key(b.ID), data); err != nil {
		return fmt.Errorf("failed to save basket %s: %w", b.ID, err)
	}
	return nil
}

// Update loads a basket, applies fn and saves the result while holding the
// basket's lock. Nothing is written when fn fails.
func (r *Repository) Update(ctx context.Context, id string, fn func(*Basket) error) (*Basket, error) {
	mu := r.lock(id)
	mu.Lock()
	defer mu.Unlock()

	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	b.ID = id
	if err := r.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repository) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &r.locks[h.Sum32()%lockCount]
}

// Get loads a basket by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Basket, error) {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	data, err := r.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load basket %s: %w", id, err)
	}
	var b Basket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode basket %s: %w", id, err)
	}
	if b.Lines == nil {
		b.Lines = []Line{}
	}
	return &b, nil
}

// Delete removes a basket. Deleting a missing basket returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	ok, err := r.store.Exists(ctx, key(id))
	if err != nil {
		return fmt.Errorf("failed to check basket %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.store.Delete(ctx, key(id))
}

// List returns the IDs of all stored baskets.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list baskets: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(k, keyPrefix), ".json")
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
