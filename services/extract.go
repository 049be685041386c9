package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Extract walks the candidate paths, most preferred first, through a raw
// provider payload and returns the first resolvable numeric value.
//
// This is the single place in the codebase allowed to do unchecked traversal
// of provider JSON. Providers disagree about nesting even across their own
// endpoints, so every metric lookup carries several candidate paths.
//
// A literal 0 is returned as (0, true): present-but-zero is a different state
// from path-not-found, and callers apply their per-metric zero policy on top.
// Strings are coerced ("12.5%" parses to 12.5); placeholder strings such as
// "None" and "N/A" are treated as missing. Non-finite values are rejected.
func Extract(payload any, paths [][]string) (float64, bool) {
	for _, path := range paths {
		node := payload
		ok := true
		for _, key := range path {
			node, ok = step(node, key)
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		if v, ok := coerceNumber(node); ok {
			return v, true
		}
	}
	return 0, false
}

// ExtractString resolves the first candidate path to a non-empty,
// non-placeholder string. Identity fields (company name, sector, industry)
// come through here.
func ExtractString(payload any, paths [][]string) (string, bool) {
	for _, path := range paths {
		node := payload
		ok := true
		for _, key := range path {
			node, ok = step(node, key)
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		s, ok := node.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		switch s {
		case "", "None", "N/A", "-", "null":
			continue
		}
		return s, true
	}
	return "", false
}

// step resolves one path element against maps and arrays.
func step(node any, key string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[key]
		return v, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(n) {
			return nil, false
		}
		return n[idx], true
	default:
		return nil, false
	}
}

// coerceNumber turns a resolved leaf into a finite float64 if possible.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(n)
		switch s {
		case "", "None", "N/A", "-", "null":
			return 0, false
		}
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
