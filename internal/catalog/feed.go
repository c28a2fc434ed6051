package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/shopspring/decimal"
)

// feedRecord mirrors one product of the catalog feed before the category
// and promo grammar are resolved.
type feedRecord struct {
	ID                    int64               `json:"id"`
	Category              string              `json:"category"`
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Price                 decimal.Decimal     `json:"price"`
	PromoPrice            decimal.NullDecimal `json:"promo_price"`
	PricingRules          *PricingRules       `json:"pricing_rules"`
	SpecialPromoRule      string              `json:"special_promo_rule"`
	SpecialPromoKind      string              `json:"special_promo_kind"`
	ReducedPriceWithPrint decimal.NullDecimal `json:"reduced_price_with_print"`
	EmailDelivery         bool                `json:"email_delivery"`
	FeaturedPosition      int                 `json:"featured_position"`
	CartOrder             int                 `json:"cart_order"`
}

func (r feedRecord) toProduct() (Product, bool) {
	category, ok := ParseCategory(r.Category)
	if !ok {
		return Product{}, false
	}
	p := Product{
		ID:                    ProductID(r.ID),
		Category:              category,
		Name:                  r.Name,
		Description:           r.Description,
		Price:                 r.Price,
		PromoPrice:            r.PromoPrice,
		SpecialPromoRule:      r.SpecialPromoRule,
		PromoRuleKind:         ParsePromoRuleKind(r.SpecialPromoKind),
		ReducedPriceWithPrint: r.ReducedPriceWithPrint,
		EmailDelivery:         r.EmailDelivery,
		FeaturedPosition:      r.FeaturedPosition,
		CartOrder:             r.CartOrder,
	}
	if r.PricingRules != nil {
		p.PricingRules = *r.PricingRules
	}
	return p, true
}

// DecodeFeed reads a catalog feed: either a bare array of products or an
// object of the form {"products": [...]}. Products with an unknown category
// are skipped and logged.
func DecodeFeed(r io.Reader) ([]Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog feed: %w", err)
	}
	data = bytes.TrimSpace(data)

	var records []feedRecord
	if len(data) > 0 && data[0] == '{' {
		var envelope struct {
			Products []feedRecord `json:"products"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("decode catalog feed: %w", err)
		}
		records = envelope.Products
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}

	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p, ok := rec.toProduct()
		if !ok {
			logx.Warn().Int64("productID", rec.ID).Str("category", rec.Category).Msg("skipping product with unknown category")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// FeedRepository serves catalogs from JSON feed files named <language>.json.
type FeedRepository struct {
	Dir string
}

func NewFeedRepository(dir string) *FeedRepository {
	return &FeedRepository{Dir: dir}
}

func (f *FeedRepository) ListProducts(ctx context.Context, language string) ([]Product, error) {
	path := filepath.Join(f.Dir, filepath.Base(language)+".json")
	file, err := os.Open(path)
	if err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to open catalog feed")
		return nil, fmt.Errorf("open catalog feed: %w", err)
	}
	defer file.Close()
	return DecodeFeed(file)
}

var _ Repository = (*FeedRepository)(nil)
