package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	logx "github.com/equine-kiosk/server/pkg/logger"
)

// ErrCatalogUnavailable is returned while no snapshot has been loaded for a
// language. Callers defer pricing until a Refresh succeeds.
var ErrCatalogUnavailable = errors.New("catalog not loaded")

// Lookup is what pricing and cart code needs from a catalog.
type Lookup interface {
	Product(id ProductID) (Product, bool)
}

// Repository fetches the product list for a language.
type Repository interface {
	ListProducts(ctx context.Context, language string) ([]Product, error)
}

// Snapshot is a read-only view of the catalog for one language.
type Snapshot struct {
	Language string
	byID     map[ProductID]Product
	ordered  []Product
}

func NewSnapshot(language string, products []Product) *Snapshot {
	s := &Snapshot{
		Language: language,
		byID:     make(map[ProductID]Product, len(products)),
		ordered:  make([]Product, 0, len(products)),
	}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			logx.Warn().Int64("productID", int64(p.ID)).Str("language", language).Msg("duplicate product in catalog, keeping first")
			continue
		}
		s.byID[p.ID] = p
		s.ordered = append(s.ordered, p)
	}
	sort.SliceStable(s.ordered, func(i, j int) bool { return s.ordered[i].ID < s.ordered[j].ID })
	return s
}

func (s *Snapshot) Product(id ProductID) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	p, ok := s.byID[id]
	return p, ok
}

// Products returns every product ordered by id.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.ordered))
	copy(out, s.ordered)
	return out
}

func (s *Snapshot) Len() int {
	return len(s.ordered)
}

// ByCategory returns the products of one category in cart display order.
func (s *Snapshot) ByCategory(c Category) []Product {
	var out []Product
	for _, p := range s.ordered {
		if p.Category == c {
			out = append(out, p)
		}
	}
	sortByCartOrder(out)
	return out
}

// Featured returns products with a featured position, ordered for the
// promotional tiles.
func (s *Snapshot) Featured() []Product {
	var out []Product
	for _, p := range s.ordered {
		if p.FeaturedPosition > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FeaturedPosition < out[j].FeaturedPosition })
	return out
}

func sortByCartOrder(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CartOrder != products[j].CartOrder {
			return products[i].CartOrder < products[j].CartOrder
		}
		return products[i].ID < products[j].ID
	})
}

// Store keeps the latest snapshot per language. Snapshots are swapped whole
// on Refresh so readers never observe a partially loaded catalog.
type Store struct {
	repo Repository

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo, snapshots: make(map[string]*Snapshot)}
}

// Refresh reloads the catalog for a language from the repository.
func (s *Store) Refresh(ctx context.Context, language string) (*Snapshot, error) {
	products, err := s.repo.ListProducts(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("refresh catalog %s: %w", language, err)
	}
	snap := NewSnapshot(language, products)

	s.mu.Lock()
	s.snapshots[language] = snap
	s.mu.Unlock()

	logx.Info().Str("language", language).Int("products", snap.Len()).Msg("catalog loaded")
	return snap, nil
}

// Snapshot returns the loaded catalog for language or ErrCatalogUnavailable.
func (s *Store) Snapshot(language string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[language]
	if !ok {
		return nil, ErrCatalogUnavailable
	}
	return snap, nil
}
