package services

import (
	"encoding/json"
	"math"
	"testing"
)

func payloadFromJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return payload
}

func TestExtract_PathOrder(t *testing.T) {
	payload := payloadFromJSON(t, `{"c": 5}`)
	v, ok := Extract(payload, [][]string{{"a", "b"}, {"c"}})
	if !ok || v != 5 {
		t.Errorf("Extract = (%v, %v), want (5, true)", v, ok)
	}

	payload = payloadFromJSON(t, `{"a": {"b": "12.5%"}}`)
	v, ok = Extract(payload, [][]string{{"a", "b"}, {"c"}})
	if !ok || v != 12.5 {
		t.Errorf("Extract = (%v, %v), want (12.5, true)", v, ok)
	}
}

func TestExtract_PrefersEarlierPath(t *testing.T) {
	payload := payloadFromJSON(t, `{"a": {"b": 1}, "c": 2}`)
	v, ok := Extract(payload, [][]string{{"a", "b"}, {"c"}})
	if !ok || v != 1 {
		t.Errorf("Extract = (%v, %v), want (1, true)", v, ok)
	}
}

func TestExtract_ZeroVersusAbsent(t *testing.T) {
	payload := payloadFromJSON(t, `{"dividendYield": 0}`)

	v, ok := Extract(payload, [][]string{{"dividendYield"}})
	if !ok || v != 0 {
		t.Errorf("literal zero should be found: got (%v, %v)", v, ok)
	}

	_, ok = Extract(payload, [][]string{{"netIncome"}})
	if ok {
		t.Error("missing path must not be conflated with zero")
	}
}

func TestExtract_ArrayIndices(t *testing.T) {
	payload := payloadFromJSON(t, `{"result": [{"price": {"raw": 3500.5}}]}`)
	v, ok := Extract(payload, [][]string{{"result", "0", "price", "raw"}})
	if !ok || v != 3500.5 {
		t.Errorf("Extract = (%v, %v), want (3500.5, true)", v, ok)
	}

	_, ok = Extract(payload, [][]string{{"result", "3", "price"}})
	if ok {
		t.Error("out-of-range index should not resolve")
	}
}

func TestExtract_StringCoercion(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		want  float64
		found bool
	}{
		{"percent suffix", `{"m": "18.2%"}`, 18.2, true},
		{"plain number string", `{"m": "42"}`, 42, true},
		{"thousands separators", `{"m": "1,234.5"}`, 1234.5, true},
		{"None placeholder", `{"m": "None"}`, 0, false},
		{"N/A placeholder", `{"m": "N/A"}`, 0, false},
		{"empty string", `{"m": ""}`, 0, false},
		{"garbage", `{"m": "abc"}`, 0, false},
		{"null value", `{"m": null}`, 0, false},
		{"boolean", `{"m": true}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Extract(payloadFromJSON(t, tt.json), [][]string{{"m"}})
			if ok != tt.found || v != tt.want {
				t.Errorf("Extract = (%v, %v), want (%v, %v)", v, ok, tt.want, tt.found)
			}
		})
	}
}

func TestExtract_RejectsNonFinite(t *testing.T) {
	payload := map[string]any{"m": math.Inf(1), "n": math.NaN()}
	if _, ok := Extract(payload, [][]string{{"m"}}); ok {
		t.Error("Inf must be rejected")
	}
	if _, ok := Extract(payload, [][]string{{"n"}}); ok {
		t.Error("NaN must be rejected")
	}
}

func TestExtract_AllPathsFail(t *testing.T) {
	payload := payloadFromJSON(t, `{"x": {"y": "nope"}}`)
	if _, ok := Extract(payload, [][]string{{"a"}, {"x", "z"}, {"x", "y"}}); ok {
		t.Error("want not-found when every candidate path fails")
	}
	if _, ok := Extract(nil, [][]string{{"a"}}); ok {
		t.Error("nil payload should never resolve")
	}
}

func TestExtractString(t *testing.T) {
	payload := payloadFromJSON(t, `{
		"price": {"longName": "  Tata Consultancy Services  ", "shortName": "TCS"},
		"profile": {"sector": "None", "industry": "N/A", "blank": "", "dash": "-"}
	}`)

	tests := []struct {
		name  string
		paths [][]string
		want  string
		found bool
	}{
		{"trims whitespace", [][]string{{"price", "longName"}}, "Tata Consultancy Services", true},
		{"falls through placeholder to later path", [][]string{{"profile", "sector"}, {"price", "shortName"}}, "TCS", true},
		{"None placeholder rejected", [][]string{{"profile", "sector"}}, "", false},
		{"N/A placeholder rejected", [][]string{{"profile", "industry"}}, "", false},
		{"empty string rejected", [][]string{{"profile", "blank"}}, "", false},
		{"dash placeholder rejected", [][]string{{"profile", "dash"}}, "", false},
		{"missing key", [][]string{{"profile", "ceo"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := ExtractString(payload, tt.paths)
			if ok != tt.found || s != tt.want {
				t.Errorf("ExtractString = (%q, %v), want (%q, %v)", s, ok, tt.want, tt.found)
			}
		})
	}
}

func TestExtractString_NonStringLeaf(t *testing.T) {
	payload := map[string]any{"n": 42.0}
	if _, ok := ExtractString(payload, [][]string{{"n"}}); ok {
		t.Error("numeric leaf must not resolve as a string")
	}
}
