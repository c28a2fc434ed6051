package order

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultReferencePrefix = "KSK"

var (
	ErrEmptyOrder    = errors.New("order has no billable units")
	ErrMissingClient = errors.New("client name and a valid email or phone are required")
)

// ClientInfo identifies the customer an order is fulfilled for.
type ClientInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Language string `json:"language,omitempty"`
}

// Validate requires a name and at least one way to reach the client.
func (c ClientInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingClient
	}
	email := strings.TrimSpace(c.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrMissingClient
		}
		return nil
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrMissingClient
	}
	return nil
}

// Submission is the payload handed to the order submission backend.
type Submission struct {
	Reference string          `json:"reference"`
	Client    ClientInfo      `json:"client"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSubmission builds the payload for an order. Covered units are not sent.
func NewSubmission(reference string, client ClientInfo, o Order, now time.Time) (Submission, error) {
	if o.IsEmpty() {
		return Submission{}, ErrEmptyOrder
	}
	if err := client.Validate(); err != nil {
		return Submission{}, err
	}
	lines := make([]Line, len(o.Lines))
	copy(lines, o.Lines)
	return Submission{
		Reference: reference,
		Client:    client,
		Lines:     lines,
		Total:     o.Total,
		CreatedAt: now.UTC(),
	}, nil
}

// NewReference returns a human-readable order reference such as
// "KSK-20260412-9F86D081", read out loud to the customer at the kiosk.
func NewReference(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(prefix) + "-" + now.Format("20060102") + "-" + strings.ToUpper(id[:8])
}
