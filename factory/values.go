/*
values.go - Flexible JSON field values

PURPOSE:
  Policy features, user targets, survey answers, and filters all carry
  loosely-typed values: a target may be a number, a vocabulary string, a
  boolean flag, or a numeric range. This file maps the JSON forms onto
  the engine's value type.

SUPPORTED FORMS:
  true / false          -> boolean
  42, 450.50            -> number (decimal, no float round-trip)
  "comprehensive"       -> string
  {"min": 1, "max": 5}  -> numeric range, either bound optional
  null                  -> absent
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// rangeJSON is the object form of a numeric range. Either bound may be
// omitted for an open interval.
type rangeJSON struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// parseValue converts one JSON value into an engine value. Dispatch is
// on the first byte; arrays and nested objects other than ranges are
// rejected.
func parseValue(raw json.RawMessage) (compare.Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return compare.Value{}, nil
	}

	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return compare.Value{}, fmt.Errorf("invalid boolean value %s: %w", trimmed, err)
		}
		return compare.Bool(b), nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return compare.Value{}, fmt.Errorf("invalid string value %s: %w", trimmed, err)
		}
		return compare.String(s), nil

	case '{':
		var r rangeJSON
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return compare.Value{}, fmt.Errorf("invalid range value %s: %w", trimmed, err)
		}
		return compare.NumRange(r.Min, r.Max), nil

	case '[':
		return compare.Value{}, fmt.Errorf("array values are not supported: %s", trimmed)

	default:
		var n decimal.Decimal
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return compare.Value{}, fmt.Errorf("invalid numeric value %s: %w", trimmed, err)
		}
		return compare.Number(n), nil
	}
}

// parseValueMap converts a JSON object of flexible values keyed by field
// name. Empty input yields nil.
func parseValueMap(raw map[string]json.RawMessage) (map[compare.FieldName]compare.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[compare.FieldName]compare.Value, len(raw))
	for field, rv := range raw {
		v, err := parseValue(rv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		out[compare.FieldName(field)] = v
	}
	return out, nil
}
