package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	errx "github.com/equine-kiosk/server/internal/core/error"
	logx "github.com/equine-kiosk/server/pkg/logger"
)

const listProductsQuery = `SELECT id, category, name, description, price, promo_price, pricing_rules,
	special_promo_rule, special_promo_kind, reduced_price_with_print, email_delivery,
	featured_position, cart_order
FROM products
WHERE language = ? AND active = 1
ORDER BY id`

// MySQLRepository reads the catalog from the seller dashboard database.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) ListProducts(ctx context.Context, language string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery, language)
	if err != nil {
		logx.Error().Err(err).Str("language", language).Msg("failed to query products")
		return nil, errx.WrapMySQL(err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var (
			rec          feedRecord
			description  sql.NullString
			pricingRules sql.NullString
			promoRule    sql.NullString
			promoKind    sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.Category, &rec.Name, &description, &rec.Price, &rec.PromoPrice, &pricingRules,
			&promoRule, &promoKind, &rec.ReducedPriceWithPrint, &rec.EmailDelivery,
			&rec.FeaturedPosition, &rec.CartOrder,
		); err != nil {
			logx.Error().Err(err).Msg("failed to scan product row")
			return nil, errx.WrapMySQL(err)
		}
		rec.Description = description.String
		rec.SpecialPromoRule = promoRule.String
		rec.SpecialPromoKind = promoKind.String
		if pricingRules.Valid && pricingRules.String != "" {
			var rules PricingRules
			if err := json.Unmarshal([]byte(pricingRules.String), &rules); err != nil {
				logx.Warn().Err(err).Int64("productID", rec.ID).Msg("ignoring malformed pricing_rules")
			} else {
				rec.PricingRules = &rules
			}
		}

		p, ok := rec.toProduct()
		if !ok {
			logx.Warn().Int64("productID", rec.ID).Str("category", rec.Category).Msg("skipping product with unknown category")
			continue
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", errx.WrapMySQL(err))
	}
	return products, nil
}

var _ Repository = (*MySQLRepository)(nil)
