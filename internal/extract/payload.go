package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is the structured expense description recovered from a model
// response. Field presence beyond the item list is not guaranteed;
// normalization decides what to do with missing pieces.
type Payload struct {
	Store    string       `json:"store,omitempty"`
	Date     string       `json:"date,omitempty"`
	Items    []RawItem    `json:"items"`
	Subtotal *LooseNumber `json:"subtotal,omitempty"`
	Total    *LooseNumber `json:"total,omitempty"`
}

// RawItem is one transient item entry as the model reported it.
// Price is the amount asserted for the whole line; TotalPrice, when the
// model emits both, is an independently asserted line total.
type RawItem struct {
	Name       string       `json:"name"`
	Quantity   LooseString  `json:"quantity,omitempty"`
	Unit       string       `json:"unit,omitempty"`
	Price      LooseNumber  `json:"price,omitempty"`
	TotalPrice *LooseNumber `json:"total_price,omitempty"`
}

// LinePrice resolves the asserted line total. The printed total wins
// over a conflicting per-line price, since it originates from the
// receipt itself.
func (it RawItem) LinePrice() float64 {
	if it.TotalPrice != nil {
		return float64(*it.TotalPrice)
	}
	return float64(it.Price)
}

// QuantityToken is the free-form quantity string, e.g. "500g" or "5pcs".
// Models sometimes split quantity and unit; rejoin them here.
func (it RawItem) QuantityToken() string {
	q := strings.TrimSpace(string(it.Quantity))
	u := strings.TrimSpace(it.Unit)
	if q != "" && u != "" && !strings.ContainsAny(q, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return q + u
	}
	return q
}

// LooseString decodes either a JSON string or a bare number into a
// string; models report quantities both ways.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	*s = LooseString(b)
	return nil
}

// LooseNumber decodes either a JSON number or a numeric string,
// tolerating currency symbols and thousands separators.
type LooseNumber float64

func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		f, err := parseMoney(v)
		if err != nil {
			return err
		}
		*n = LooseNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = LooseNumber(f)
	return nil
}

func parseMoney(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cleaned, 64)
}
