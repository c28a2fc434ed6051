package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCartFormat is returned when a saved cart is neither an array of
// line items nor an object carrying one under "items".
var ErrInvalidCartFormat = errors.New("invalid cart format")

// Encode serializes the cart as a JSON array of line items.
func Encode(c *Cart) ([]byte, error) {
	items := c.items
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return b, nil
}

// Decode restores a cart saved by Encode. It also accepts the wrapped form
// {"items": [...]}.
func Decode(data []byte) (*Cart, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrInvalidCartFormat
	}

	raw := data
	if data[0] == '{' {
		var envelope struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCartFormat, err)
		}
		raw = bytes.TrimSpace(envelope.Items)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrInvalidCartFormat
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCartFormat, err)
	}

	c := New()
	for _, li := range items {
		if li.Bundle == nil && (li.Photo == nil || li.Photo.Filename == "") {
			continue
		}
		c.items = append(c.items, li)
	}
	return c, nil
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return Encode(c)
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
