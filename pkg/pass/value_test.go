package pass

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{input: "rgb(255, 255, 255)", want: RGB(255, 255, 255)},
		{input: "rgb(0,0,0)", want: RGB(0, 0, 0)},
		{input: " rgb( 10 , 20 , 30 ) ", want: RGB(10, 20, 30)},
		{input: "#3c414c", want: RGB(60, 65, 76)},
		{input: "#FFFFFF", want: RGB(255, 255, 255)},
		{input: "rgb(256, 0, 0)", wantErr: true},
		{input: "rgba(1, 2, 3, 0.5)", wantErr: true},
		{input: "#fff", wantErr: true},
		{input: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColor_JSON(t *testing.T) {
	data, err := json.Marshal(RGB(60, 65, 76))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"rgb(60, 65, 76)"` {
		t.Errorf("json.Marshal() = %s", data)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "2025-06-01T10:00:00Z"},
		{input: "2025-06-01T12:00:00+02:00"},
		{input: "2025-06-01T10:00:00.750Z"},
		{input: "Sun, 01 Jun 2025 10:00:00 +0000"},
		{input: "2025-06-01T10:00:00"},
		{input: "01/06/2025", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp() error = %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got.Time, want)
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", StringValue("a"), StringValue("a"), true},
		{"different string", StringValue("a"), StringValue("b"), false},
		{"string and number", StringValue("1"), NumberValue(1), false},
		{"same date in different zones", DateValue(now), DateValue(now.In(time.FixedZone("X", 3600))), true},
		{"date drops sub-second precision", DateValue(now), DateValue(now.Add(500 * time.Millisecond)), true},
		{"same amount", CurrencyValue(decimal.RequireFromString("1.50"), "EUR"), CurrencyValue(decimal.RequireFromString("1.5"), "EUR"), true},
		{"different currency", CurrencyValue(decimal.NewFromInt(1), "EUR"), CurrencyValue(decimal.NewFromInt(1), "USD"), false},
		{"zero values", Value{}, Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestField_JSON(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{
			name:  "string",
			field: Field{Key: "k", Value: StringValue("v")},
			want:  `{"key":"k","value":"v"}`,
		},
		{
			name:  "number",
			field: Field{Key: "k", Value: NumberValue(2.5)},
			want:  `{"key":"k","value":2.5}`,
		},
		{
			name:  "currency",
			field: Field{Key: "k", Value: CurrencyValue(decimal.RequireFromString("10.25"), "GBP")},
			want:  `{"key":"k","value":10.25,"currencyCode":"GBP"}`,
		},
		{
			name:  "date",
			field: Field{Key: "k", Value: DateValue(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)), DateStyle: DateStyleShort},
			want:  `{"key":"k","value":"2025-06-01T10:00:00Z","dateStyle":"PKDateStyleShort"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.field)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("json.Marshal() = %s, want %s", data, tt.want)
			}

			var back Field
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if !back.Value.Equal(tt.field.Value) {
				t.Errorf("value = %v, want %v", back.Value, tt.field.Value)
			}
		})
	}
}
