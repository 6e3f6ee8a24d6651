package httpapi

import (
	"encoding/json"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"
)

// The browser clients send shift slots, table numbers and phone numbers
// sometimes as JSON strings and sometimes as numbers. flexString and
// flexInt accept both so the handlers never care.

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			*f = flexInt(i)
			return nil
		}
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Formatted currency strings ("1.234.567₫") come through here.
	*f = flexInt(vnformat.ParseCurrency(s))
	return nil
}

func (f flexInt) Int64() int64 { return int64(f) }
