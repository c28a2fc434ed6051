package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/metrics"
	"github.com/equine-kiosk/server/internal/order"
	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/rs/zerolog"
)

// SavedCartRepository stores encoded carts under a short code the customer
// can type back in later.
type SavedCartRepository interface {
	Save(ctx context.Context, payload []byte) (code string, err error)
	Load(ctx context.Context, code string) ([]byte, error)
	Delete(ctx context.Context, code string) error
}

// OrderSubmitter hands a finalized order over for fulfillment. A nil error
// means the order was acknowledged.
type OrderSubmitter interface {
	Submit(ctx context.Context, sub order.Submission) error
}

var ErrEmptyCart = errors.New("cart is empty")

// Session is one customer's visit at the kiosk: a language, the catalog
// loaded for it and a cart. Methods are safe for concurrent use.
type Session struct {
	ID        string
	Language  string
	CreatedAt time.Time

	svc *Service
	log zerolog.Logger
	// lastSeen is the unix nano time of the last lookup.
	lastSeen atomic.Int64

	mu      sync.Mutex
	catalog *catalog.Snapshot
	cart    *cart.Cart
	// restoredCode is the saved-cart code the current cart came from.
	restoredCode string
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) Catalog() *catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Cart returns a copy of the session cart.
func (s *Session) Cart() *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Quote prices the cart as it stands.
func (s *Session) Quote() order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.Compute(s.cart, s.catalog)
}

func (s *Session) AddPhoto(ref cart.PhotoRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AddPhoto(ref)
}

func (s *Session) RemovePhoto(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemovePhoto(filename)
}

func (s *Session) SetFormatQuantity(filename string, id catalog.ProductID, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SetFormatQuantity(s.catalog, filename, id, delta)
}

func (s *Session) ApplyFirstPhotoChoicesToAll(sourceFilename string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ApplyFirstPhotoChoicesToAll(s.catalog, sourceFilename)
}

func (s *Session) AddBundle(id catalog.ProductID, subject string, photos []cart.PhotoRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AddBundle(s.catalog, id, subject, photos)
}

func (s *Session) RemoveBundle(id catalog.ProductID, subject string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.RemoveBundle(id, subject)
}

// ClearCart empties the cart, e.g. when the customer walks away.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.restoredCode = ""
}

// Submit totals the cart and hands it to the submitter. The cart is cleared
// only once the submitter acknowledged the order.
func (s *Session) Submit(ctx context.Context, client order.ClientInfo) (order.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return order.Submission{}, ErrEmptyCart
	}
	if client.Language == "" {
		client.Language = s.Language
	}
	o := order.Compute(s.cart, s.catalog)
	ref := order.NewReference(s.svc.referencePrefix, s.svc.now())
	sub, err := order.NewSubmission(ref, client, o, s.svc.now())
	if err != nil {
		return order.Submission{}, err
	}

	if err := s.svc.submitter.Submit(ctx, sub); err != nil {
		metrics.RecordSubmission(false, len(o.Lines), len(o.Covered), o.Skipped)
		s.log.Error().Err(err).Str("reference", ref).Msg("order submission failed, keeping cart")
		return order.Submission{}, fmt.Errorf("submit order %s: %w", ref, err)
	}

	metrics.RecordSubmission(true, len(o.Lines), len(o.Covered), o.Skipped)
	s.log.Info().
		Str("reference", ref).
		Int("units", len(sub.Lines)).
		Str("total", sub.Total.StringFixed(2)).
		Msg("order submitted")
	s.cart.Clear()
	s.forgetRestoredCart(ctx)
	return sub, nil
}

// forgetRestoredCart drops the saved cart an order was placed from, so its
// code cannot be redeemed twice. Failures are logged only: the order is
// already accepted and the saved cart expires on its own.
func (s *Session) forgetRestoredCart(ctx context.Context) {
	code := s.restoredCode
	if code == "" {
		return
	}
	s.restoredCode = ""
	err := s.svc.saved.Delete(ctx, code)
	metrics.RecordSavedCart("delete", err == nil)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("failed to delete redeemed saved cart")
	}
}

// SaveForLater stores the cart and returns the code to restore it with.
// The session cart is left untouched.
func (s *Session) SaveForLater(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return "", ErrEmptyCart
	}
	payload, err := cart.Encode(s.cart)
	if err != nil {
		return "", err
	}
	code, err := s.svc.saved.Save(ctx, payload)
	metrics.RecordSavedCart("save", err == nil)
	if err != nil {
		return "", fmt.Errorf("save cart: %w", err)
	}
	s.log.Info().Str("code", code).Int("items", s.cart.Len()).Msg("cart saved")
	return code, nil
}

// Restore replaces the session cart with the cart saved under code.
func (s *Session) Restore(ctx context.Context, code string) error {
	payload, err := s.svc.saved.Load(ctx, code)
	if err != nil {
		metrics.RecordSavedCart("restore", false)
		return fmt.Errorf("load saved cart %s: %w", code, err)
	}
	restored, err := cart.Decode(payload)
	if err != nil {
		metrics.RecordSavedCart("restore", false)
		s.log.Warn().Err(err).Str("code", code).Msg("saved cart has an invalid format")
		return err
	}

	s.mu.Lock()
	s.cart = restored
	s.restoredCode = code
	s.mu.Unlock()

	metrics.RecordSavedCart("restore", true)
	s.log.Info().Str("code", code).Int("items", restored.Len()).Msg("cart restored")
	return nil
}

// ReloadCatalog swaps in the latest catalog of the session language. The
// cart is kept; bundle prices stay frozen.
func (s *Session) ReloadCatalog() error {
	snap, err := s.svc.catalogs.Snapshot(s.Language)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = snap
	s.mu.Unlock()
	logx.Debug().Str("session", s.ID).Str("language", s.Language).Msg("session catalog reloaded")
	return nil
}
