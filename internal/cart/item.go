package cart

import (
	"encoding/json"
	"fmt"

	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/shopspring/decimal"
)

// PhotoRef identifies a photo and its subject. Bundles keep a snapshot of
// the refs they cover.
type PhotoRef struct {
	Filename string `json:"filename"`
	Subject
	FileID  string `json:"file_id,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

// Photo is a photo line item with its requested formats. A quantity of zero
// is represented by the key being absent.
type Photo struct {
	PhotoRef
	Formats map[catalog.ProductID]int `json:"formats"`
}

func (p *Photo) clone() *Photo {
	cp := *p
	cp.Formats = make(map[catalog.ProductID]int, len(p.Formats))
	for k, v := range p.Formats {
		cp.Formats[k] = v
	}
	return &cp
}

// Bundle grants digital rights to every photo of a subject at one delivery
// tier. BundlePrice is frozen when the bundle is added.
type Bundle struct {
	ProductID   catalog.ProductID `json:"product_id"`
	Subject     string            `json:"subject"`
	Quantity    int               `json:"quantity"`
	BundlePrice decimal.Decimal   `json:"bundle_price"`
	Photos      []PhotoRef        `json:"photos"`
}

// Couple returns the parsed subject of the bundle.
func (b *Bundle) Couple() Subject {
	return ParseSubject(b.Subject)
}

func (b *Bundle) clone() *Bundle {
	cp := *b
	cp.Photos = append([]PhotoRef(nil), b.Photos...)
	return &cp
}

// ItemType tags a line item in the saved-cart encoding.
type ItemType string

const (
	ItemPhoto  ItemType = "photo"
	ItemBundle ItemType = "bundle"
)

// LineItem holds exactly one of Photo or Bundle.
type LineItem struct {
	Photo  *Photo
	Bundle *Bundle
}

func (li LineItem) Type() ItemType {
	if li.Bundle != nil {
		return ItemBundle
	}
	return ItemPhoto
}

func (li LineItem) clone() LineItem {
	switch {
	case li.Photo != nil:
		return LineItem{Photo: li.Photo.clone()}
	case li.Bundle != nil:
		return LineItem{Bundle: li.Bundle.clone()}
	default:
		return LineItem{}
	}
}

type photoJSON struct {
	Type ItemType `json:"type"`
	*Photo
}

type bundleJSON struct {
	Type ItemType `json:"type"`
	*Bundle
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	switch {
	case li.Photo != nil:
		return json.Marshal(photoJSON{Type: ItemPhoto, Photo: li.Photo})
	case li.Bundle != nil:
		return json.Marshal(bundleJSON{Type: ItemBundle, Bundle: li.Bundle})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts "photo" and "bundle" items; "pack" is the legacy
// name of a bundle. Untyped items are read as photos.
func (li *LineItem) UnmarshalJSON(b []byte) error {
	var head struct {
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	switch head.Type {
	case ItemBundle, "pack":
		var bundle Bundle
		if err := json.Unmarshal(b, &bundle); err != nil {
			return err
		}
		*li = LineItem{Bundle: &bundle}
	case ItemPhoto, "":
		var photo Photo
		if err := json.Unmarshal(b, &photo); err != nil {
			return err
		}
		if photo.Formats == nil {
			photo.Formats = map[catalog.ProductID]int{}
		}
		*li = LineItem{Photo: &photo}
	default:
		return fmt.Errorf("unknown line item type %q", head.Type)
	}
	return nil
}
