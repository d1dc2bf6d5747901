package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a postal address persisted as JSON text.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Country    string  `json:"country"`
}

// Value marshals Address into its JSON column representation.
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal: %w", err)
	}
	return string(b), nil
}

// Scan decodes the JSON column representation.
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*a = Address{}
		return nil
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return fmt.Errorf("address: unmarshal: %w", err)
	}
	return nil
}

// Flatten joins the non-empty address parts with sep for single-cell exports.
func (a Address) Flatten(sep string) string {
	parts := []string{a.Line1}
	if a.Line2 != nil {
		parts = append(parts, *a.Line2)
	}
	parts = append(parts, a.City, a.State, a.PostalCode, a.Country)

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
