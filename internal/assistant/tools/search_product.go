package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/equine-kiosk/server/internal/catalog"
)

// ===================================
// Search Products Tool
// ===================================

const (
	defaultMaxResults = 10
	maxResultsLimit   = 20
)

type SearchProductsInput struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	Language   string `json:"language,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type ProductSummary struct {
	ID       catalog.ProductID `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Price    string            `json:"price"`
}

type SearchProductsOutput struct {
	Products []ProductSummary `json:"products"`
	Total    int              `json:"total"`
}

func summarize(p catalog.Product) ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category.String(),
		Price:    p.BasePrice().StringFixed(2),
	}
}

func (c *Catalog) searchProductsTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "search_products",
			Desc: "Search the kiosk catalog for prints, digital files and bundles. Matches product names and descriptions. Returns product ids to use with get_product_details and quote_price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Keywords such as print, 20x30, HD, pack. An empty query lists everything in the category.",
					Required: true,
				},
				"category": {
					Type: "string",
					Desc: "Optional category filter: print, digital or bundle",
				},
				"language": {
					Type: "string",
					Desc: "Catalog language code, e.g. fr or en",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductsInput) (*SearchProductsOutput, error) {
			snap, err := c.snapshot(in.Language)
			if err != nil {
				return nil, err
			}

			limit := in.MaxResults
			if limit <= 0 {
				limit = defaultMaxResults
			}
			if limit > maxResultsLimit {
				limit = maxResultsLimit
			}

			products := snap.Products()
			if in.Category != "" {
				category, ok := catalog.ParseCategory(in.Category)
				if !ok {
					return nil, fmt.Errorf("unknown category: %s", in.Category)
				}
				products = snap.ByCategory(category)
			}

			query := strings.ToLower(strings.TrimSpace(in.Query))
			out := &SearchProductsOutput{Products: []ProductSummary{}}
			for _, p := range products {
				if query != "" &&
					!strings.Contains(strings.ToLower(p.Name), query) &&
					!strings.Contains(strings.ToLower(p.Description), query) {
					continue
				}
				out.Total++
				if len(out.Products) < limit {
					out.Products = append(out.Products, summarize(p))
				}
			}
			return out, nil
		},
	)
}
