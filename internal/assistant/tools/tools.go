package tools

import (
	"github.com/cloudwego/eino/components/tool"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/session"
)

// Catalog tools let a kiosk assistant answer product and price questions
// from the same snapshots the cart is priced with.
type Catalog struct {
	catalogs        session.CatalogSource
	defaultLanguage string
}

func NewCatalog(catalogs session.CatalogSource, defaultLanguage string) *Catalog {
	return &Catalog{catalogs: catalogs, defaultLanguage: defaultLanguage}
}

func (c *Catalog) snapshot(language string) (*catalog.Snapshot, error) {
	if language == "" {
		language = c.defaultLanguage
	}
	return c.catalogs.Snapshot(language)
}

// Tools returns every catalog tool.
func (c *Catalog) Tools() []tool.BaseTool {
	return []tool.BaseTool{
		c.searchProductsTool(),
		c.productDetailsTool(),
		c.quotePriceTool(),
	}
}
