package reports

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"plain integer string", "20000", "20000"},
		{"thousands separators", "20,000", "20000"},
		{"currency prefix", "MMK 20,000", "20000"},
		{"kyat shorthand", "Ks 1,234.50", "1234.5"},
		{"negative formatted", "-1,234.50", "-1234.5"},
		{"garbage string", "not-a-number", "0"},
		{"empty string", "", "0"},
		{"json number", json.Number("99.25"), "99.25"},
		{"malformed json number", json.Number("9x"), "0"},
		{"float", float64(12.5), "12.5"},
		{"int", 7, "7"},
		{"int64", int64(-3), "-3"},
		{"nil", nil, "0"},
		{"decimal passthrough", decimal.NewFromInt(42), "42"},
		{"unsupported type", struct{}{}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tc.want)
			if err != nil {
				t.Fatalf("bad expectation %q: %v", tc.want, err)
			}
			got := ParseAmount(tc.input)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%v) = %s, want %s", tc.input, got, want)
			}
		})
	}
}
