// Package model defines the domain types the theme renders, together
// with the flexible wire shapes the ContextHub API returns.
package model

import (
	"encoding/json"
	"strconv"
)

// ID decodes upstream identifiers that may arrive as a plain string, a
// number, or an embedded document like {"_id": "..."}.
type ID string

// UnmarshalJSON accepts "abc", 123, {"_id":"abc"} and {"id":"abc"}.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}

	var embedded struct {
		LegacyID json.RawMessage `json:"_id"`
		ID       json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &embedded); err != nil {
		*id = ""
		return nil
	}
	if len(embedded.LegacyID) > 0 {
		return id.UnmarshalJSON(embedded.LegacyID)
	}
	if len(embedded.ID) > 0 {
		return id.UnmarshalJSON(embedded.ID)
	}

	*id = ""
	return nil
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return id == "" }

// FirstID returns the first non-empty identifier.
func FirstID(ids ...ID) ID {
	for _, id := range ids {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}

// IDStrings converts a list of wire identifiers to strings, dropping
// empty values.
func IDStrings(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !id.IsZero() {
			out = append(out, id.String())
		}
	}
	return out
}

// Number decodes JSON values that may be a number or a numeric string.
type Number float64

// UnmarshalJSON accepts 3, 3.5, "3" and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Number(f)
		}
		return nil
	}

	*n = 0
	return nil
}

// Int returns the value truncated to an int.
func (n Number) Int() int { return int(n) }
