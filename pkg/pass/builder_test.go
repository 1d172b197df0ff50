package pass

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testConfig() Config {
	return Config{
		OrganizationName:   "Test organization",
		Description:        "Super gentlememe pass",
		PassTypeIdentifier: "com.example.pass",
		TeamIdentifier:     "AA00AA0A0A",
		SerialNumber:       "ABC123",
	}
}

func statusGroups() FieldGroups {
	return FieldGroups{
		Primary: []Field{{Key: "status", Value: StringValue("Valid")}},
	}
}

func validBuilder() Builder {
	return NewBuilder(testConfig()).Generic(statusGroups())
}

func intPtr(i int) *int { return &i }

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name                string
		builder             func() Builder
		wantErr             bool
		expectedErrContains string
	}{
		{
			name:    "minimal generic pass",
			builder: validBuilder,
		},
		{
			name: "boarding pass with transit type",
			builder: func() Builder {
				return NewBuilder(testConfig()).BoardingPass(TransitAir, FieldGroups{
					Primary:   []Field{{Key: "origin", Label: "SFO", Value: StringValue("San Francisco")}},
					Auxiliary: []Field{{Key: "seat", Value: StringValue("12A"), Row: intPtr(1)}},
				})
			},
		},
		{
			name: "all optional attributes",
			builder: func() Builder {
				alt := 12.5
				return validBuilder().
					WithGroupingIdentifier("group-1").
					WithLogoText("Example").
					WithForegroundColor(RGB(255, 255, 255)).
					WithBackgroundColor(RGB(0, 0, 0)).
					WithLabelColor(RGB(10, 20, 30)).
					WithRelevantDate(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).
					WithExpirationDate(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)).
					WithBarcode(NewBarcode(BarcodeQR, "ABC123")).
					WithBarcode(Barcode{Format: BarcodeCode128, Message: "ABC123", MessageEncoding: "US-ASCII"}).
					WithLocation(Location{Latitude: 51.5, Longitude: -0.12, Altitude: &alt}).
					WithBeacon(Beacon{ProximityUUID: "f8f589e9-c07e-58b0-aea2-d1b1d33f6e5b"}).
					WithMaxDistance(100).
					WithAssociatedStoreIdentifiers(123456789).
					WithAppLaunchURL("example://open").
					WithWebService("https://passes.example.com", "0123456789abcdef").
					WithSharingProhibited(true).
					WithSuppressStripShine(true).
					WithNFC(NFC{Message: "member-42", EncryptionPublicKey: "MDkwEwYHKoZIzj0CAQYIKoZIzj0DAQcDIgAC"}).
					WithSemantics(SemanticTags{EventType: EventSports, EventName: "Final"}).
					WithUserInfo(map[string]any{"customer": "42"})
			},
		},
		{
			name: "missing required attributes",
			builder: func() Builder {
				return NewBuilder(Config{}).Generic(statusGroups())
			},
			wantErr:             true,
			expectedErrContains: "passTypeIdentifier is required",
		},
		{
			name: "no style",
			builder: func() Builder {
				return NewBuilder(testConfig())
			},
			wantErr:             true,
			expectedErrContains: "a style is required",
		},
		{
			name: "boarding pass without transit type",
			builder: func() Builder {
				return NewBuilder(testConfig()).WithStyle(StyleBoardingPass, statusGroups())
			},
			wantErr:             true,
			expectedErrContains: "transitType is required",
		},
		{
			name: "boarding pass with unknown transit type",
			builder: func() Builder {
				return NewBuilder(testConfig()).BoardingPass("PKTransitTypeRocket", statusGroups())
			},
			wantErr:             true,
			expectedErrContains: "unknown transitType",
		},
		{
			name: "duplicate key across groups",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Header:  []Field{{Key: "status", Value: StringValue("Gold")}},
					Primary: []Field{{Key: "status", Value: StringValue("Valid")}},
				})
			},
			wantErr:             true,
			expectedErrContains: `key "status" is already used by generic.headerFields[0]`,
		},
		{
			name: "empty key",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Value: StringValue("Valid")}},
				})
			},
			wantErr:             true,
			expectedErrContains: "key is required",
		},
		{
			name: "field without value",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "status"}},
				})
			},
			wantErr:             true,
			expectedErrContains: "value is required",
		},
		{
			name: "date value without style",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "when", Value: DateValue(time.Now())}},
				})
			},
			wantErr:             true,
			expectedErrContains: "requires dateStyle or timeStyle",
		},
		{
			name: "number that is not finite",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "gate", Value: NumberValue(math.NaN())}},
				})
			},
			wantErr:             true,
			expectedErrContains: "number must be finite",
		},
		{
			name: "amount beyond float64 precision",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "price", Value: CurrencyValue(decimal.RequireFromString("12345678901234567890.12"), "EUR")}},
				})
			},
			wantErr:             true,
			expectedErrContains: "cannot be represented exactly",
		},
		{
			name: "timestamp string on a dated field",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "when", Value: StringValue("2025-06-01T10:00:00Z"), DateStyle: DateStyleShort}},
				})
			},
			wantErr:             true,
			expectedErrContains: "must be a date value",
		},
		{
			name: "plain string on a dated field",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "when", Value: StringValue("Tomorrow"), DateStyle: DateStyleShort}},
				})
			},
		},
		{
			name: "text alignment on primary field",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "status", Value: StringValue("Valid"), TextAlignment: AlignCenter}},
				})
			},
			wantErr:             true,
			expectedErrContains: "textAlignment is not allowed on primaryFields",
		},
		{
			name: "row on header field",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Header: []Field{{Key: "status", Value: StringValue("Valid"), Row: intPtr(0)}},
				})
			},
			wantErr:             true,
			expectedErrContains: "row is only allowed on auxiliaryFields",
		},
		{
			name: "row out of range",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Auxiliary: []Field{{Key: "status", Value: StringValue("Valid"), Row: intPtr(2)}},
				})
			},
			wantErr:             true,
			expectedErrContains: "row must be 0 or 1",
		},
		{
			name: "change message without placeholder",
			builder: func() Builder {
				return NewBuilder(testConfig()).Generic(FieldGroups{
					Primary: []Field{{Key: "status", Value: StringValue("Valid"), ChangeMessage: "Status changed"}},
				})
			},
			wantErr:             true,
			expectedErrContains: "changeMessage must contain %@",
		},
		{
			name: "code128 with utf-8",
			builder: func() Builder {
				return validBuilder().WithBarcode(Barcode{Format: BarcodeCode128, Message: "x", MessageEncoding: EncodingUTF8})
			},
			wantErr:             true,
			expectedErrContains: `encoding "utf-8" is not supported by PKBarcodeFormatCode128`,
		},
		{
			name: "qr with us-ascii",
			builder: func() Builder {
				return validBuilder().WithBarcode(Barcode{Format: BarcodeQR, Message: "x", MessageEncoding: EncodingASCII})
			},
			wantErr:             true,
			expectedErrContains: "is not supported by PKBarcodeFormatQR",
		},
		{
			name: "unknown barcode format",
			builder: func() Builder {
				return validBuilder().WithBarcode(Barcode{Format: "PKBarcodeFormatDataMatrix", Message: "x", MessageEncoding: EncodingUTF8})
			},
			wantErr:             true,
			expectedErrContains: "unknown format",
		},
		{
			name: "location out of range",
			builder: func() Builder {
				return validBuilder().WithLocation(Location{Latitude: 91, Longitude: 0})
			},
			wantErr:             true,
			expectedErrContains: "locations[0]",
		},
		{
			name: "too many locations",
			builder: func() Builder {
				b := validBuilder()
				for i := 0; i < 11; i++ {
					b = b.WithLocation(Location{Latitude: 1, Longitude: 1})
				}
				return b
			},
			wantErr:             true,
			expectedErrContains: "at most 10 are allowed",
		},
		{
			name: "beacon uuid",
			builder: func() Builder {
				return validBuilder().WithBeacon(Beacon{ProximityUUID: "not-a-uuid"})
			},
			wantErr:             true,
			expectedErrContains: "is not a UUID",
		},
		{
			name: "web service without token",
			builder: func() Builder {
				return validBuilder().WithWebService("https://passes.example.com", "")
			},
			wantErr:             true,
			expectedErrContains: "must be set together",
		},
		{
			name: "web service with short token",
			builder: func() Builder {
				return validBuilder().WithWebService("https://passes.example.com", "short")
			},
			wantErr:             true,
			expectedErrContains: "at least 16 characters",
		},
		{
			name: "web service with bad scheme",
			builder: func() Builder {
				return validBuilder().WithWebService("ftp://passes.example.com", "0123456789abcdef")
			},
			wantErr:             true,
			expectedErrContains: "must be an http or https URL",
		},
		{
			name: "app launch url without store identifiers",
			builder: func() Builder {
				return validBuilder().WithAppLaunchURL("example://open")
			},
			wantErr:             true,
			expectedErrContains: "requires associatedStoreIdentifiers",
		},
		{
			name: "nfc message too long",
			builder: func() Builder {
				return validBuilder().WithNFC(NFC{Message: strings.Repeat("x", 65), EncryptionPublicKey: "key"})
			},
			wantErr:             true,
			expectedErrContains: "at most 64 bytes",
		},
		{
			name: "user info is not an object",
			builder: func() Builder {
				return validBuilder().WithUserInfo([]int{1, 2})
			},
			wantErr:             true,
			expectedErrContains: "userInfo must be a JSON object",
		},
		{
			name: "user info cannot be encoded",
			builder: func() Builder {
				return validBuilder().WithUserInfo(map[string]any{"ch": make(chan int)})
			},
			wantErr:             true,
			expectedErrContains: "userInfo:",
		},
		{
			name: "unknown semantic event type",
			builder: func() Builder {
				return validBuilder().WithSemantics(SemanticTags{EventType: "PKEventTypeParty"})
			},
			wantErr:             true,
			expectedErrContains: "semantics: unknown eventType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.builder().Build()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.expectedErrContains)
				}
				if p != nil {
					t.Error("expected no pass on error")
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if verr.Code() != ErrCodeValidation {
					t.Errorf("expected code %s, got %s", ErrCodeValidation, verr.Code())
				}
				if !strings.Contains(err.Error(), tt.expectedErrContains) {
					t.Errorf("expected error containing %q, got %q", tt.expectedErrContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatal("expected pass, got nil")
			}
		})
	}
}

func TestBuilder_ReportsEveryProblem(t *testing.T) {
	_, err := NewBuilder(Config{SerialNumber: "ABC123"}).
		Generic(FieldGroups{Primary: []Field{{Key: "a"}, {Key: "a", Value: StringValue("x")}}}).
		WithBarcode(Barcode{Format: BarcodeCode128, Message: "x", MessageEncoding: EncodingUTF8}).
		Build()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	want := []string{
		"passTypeIdentifier is required",
		"teamIdentifier is required",
		"organizationName is required",
		"description is required",
		"value is required",
		`key "a" is already used`,
		"is not supported by PKBarcodeFormatCode128",
	}
	if len(verr.Problems) != len(want) {
		t.Fatalf("expected %d problems, got %d: %v", len(want), len(verr.Problems), verr.Problems)
	}
	for _, w := range want {
		if !strings.Contains(err.Error(), w) {
			t.Errorf("expected problem %q in %v", w, verr.Problems)
		}
	}
}

func TestBuilder_StyleExclusivity(t *testing.T) {
	groups := statusGroups()
	base := NewBuilder(testConfig())

	tests := []struct {
		name    string
		builder Builder
	}{
		{"generic then coupon", base.Generic(groups).Coupon(groups)},
		{"coupon then generic", base.Coupon(groups).Generic(groups)},
		{"boarding pass then store card", base.BoardingPass(TransitTrain, groups).StoreCard(groups)},
		{"store card then boarding pass", base.StoreCard(groups).BoardingPass(TransitTrain, groups)},
		{"same style twice", base.EventTicket(groups).EventTicket(groups)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error when attaching two styles, got nil")
			}
			if !strings.Contains(err.Error(), "exactly one style is allowed") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuilder_IsImmutable(t *testing.T) {
	base := validBuilder().WithBarcode(NewBarcode(BarcodeQR, "base"))

	a := base.WithBarcode(NewBarcode(BarcodeQR, "a")).WithSerialNumber("A")
	b := base.WithBarcode(NewBarcode(BarcodeQR, "b")).WithSerialNumber("B")

	pa, err := a.Build()
	if err != nil {
		t.Fatalf("Build() a: %v", err)
	}
	pb, err := b.Build()
	if err != nil {
		t.Fatalf("Build() b: %v", err)
	}
	pbase, err := base.Build()
	if err != nil {
		t.Fatalf("Build() base: %v", err)
	}

	if got := pa.Barcodes(); len(got) != 2 || got[1].Message != "a" {
		t.Errorf("pass a barcodes = %+v", got)
	}
	if got := pb.Barcodes(); len(got) != 2 || got[1].Message != "b" {
		t.Errorf("pass b barcodes = %+v", got)
	}
	if got := pbase.Barcodes(); len(got) != 1 {
		t.Errorf("base barcodes = %+v", got)
	}
	if pbase.SerialNumber() != "ABC123" {
		t.Errorf("base serial number changed to %q", pbase.SerialNumber())
	}

	// a built pass does not share state with its builder
	if err := pa.SetValue("status", StringValue("Expired")); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	again, err := a.Build()
	if err != nil {
		t.Fatalf("Build() again: %v", err)
	}
	if v, _ := again.GetValue("status"); !v.Equal(StringValue("Valid")) {
		t.Errorf("builder observed pass mutation: status = %v", v)
	}
}

func TestBuilder_GroupsAreCopied(t *testing.T) {
	groups := statusGroups()
	p, err := NewBuilder(testConfig()).Generic(groups).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	groups.Primary[0].Value = StringValue("Changed")

	if v, _ := p.GetValue("status"); !v.Equal(StringValue("Valid")) {
		t.Errorf("pass observed caller mutation: status = %v", v)
	}
}

func TestPass_ToBuilder(t *testing.T) {
	p, err := validBuilder().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	derived, err := p.ToBuilder().WithSerialNumber("XYZ789").Build()
	if err != nil {
		t.Fatalf("Build() derived error = %v", err)
	}
	if derived.SerialNumber() != "XYZ789" {
		t.Errorf("derived serial = %q, want XYZ789", derived.SerialNumber())
	}
	if p.SerialNumber() != "ABC123" {
		t.Errorf("original serial = %q, want ABC123", p.SerialNumber())
	}
	if derived.Style() != StyleGeneric {
		t.Errorf("derived style = %q, want generic", derived.Style())
	}

	if _, err := p.ToBuilder().Coupon(statusGroups()).Build(); err == nil {
		t.Error("expected error when attaching a second style to a derived builder")
	}
}
