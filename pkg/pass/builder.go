package pass

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Config carries the attributes every pass requires.
type Config struct {
	OrganizationName   string
	Description        string
	PassTypeIdentifier string
	TeamIdentifier     string
	SerialNumber       string
}

// Builder assembles a Pass.
//
// Builder is a value: every With method returns an updated copy and leaves the
// receiver untouched, so a partially configured builder can be shared and
// derived from safely. Problems are reported together by Build.
//
// Example:
//
//	p, err := pass.NewBuilder(pass.Config{
//		OrganizationName:   "Test organization",
//		Description:        "Super gentlememe pass",
//		PassTypeIdentifier: "com.example.pass",
//		TeamIdentifier:     "AA00AA0A0A",
//		SerialNumber:       "ABC123",
//	}).
//		Generic(pass.FieldGroups{Primary: []pass.Field{{Key: "status", Value: pass.StringValue("Valid")}}}).
//		WithBarcode(pass.NewBarcode(pass.BarcodeQR, "ABC123")).
//		Build()
type Builder struct {
	doc      document
	attached []Style
	deferred []string
}

// NewBuilder returns a builder seeded with the required attributes.
func NewBuilder(cfg Config) Builder {
	return Builder{doc: document{
		FormatVersion:      FormatVersion,
		PassTypeIdentifier: cfg.PassTypeIdentifier,
		SerialNumber:       cfg.SerialNumber,
		TeamIdentifier:     cfg.TeamIdentifier,
		OrganizationName:   cfg.OrganizationName,
		Description:        cfg.Description,
	}}
}

// Build validates the builder state and returns a pass that owns a copy of it.
// The error is a *ValidationError listing every problem found.
func (b Builder) Build() (*Pass, error) {
	if len(b.deferred) > 0 {
		var p problems
		p = append(p, b.deferred...)
		if err := b.doc.validate(b.attached); err != nil {
			p = append(p, err.(*ValidationError).Problems...)
		}
		return nil, p.err()
	}
	return newPass(b.doc.clone(), slices.Clone(b.attached))
}

// WithStyle attaches the field groups of a style. A pass has exactly one style:
// attaching a second one makes Build fail.
func (b Builder) WithStyle(style Style, groups FieldGroups) Builder {
	return b.attach(style, "", groups)
}

// BoardingPass attaches the boarding pass style with its transit type.
func (b Builder) BoardingPass(transit TransitType, groups FieldGroups) Builder {
	return b.attach(StyleBoardingPass, transit, groups)
}

func (b Builder) Coupon(groups FieldGroups) Builder {
	return b.attach(StyleCoupon, "", groups)
}

func (b Builder) EventTicket(groups FieldGroups) Builder {
	return b.attach(StyleEventTicket, "", groups)
}

func (b Builder) Generic(groups FieldGroups) Builder {
	return b.attach(StyleGeneric, "", groups)
}

func (b Builder) StoreCard(groups FieldGroups) Builder {
	return b.attach(StyleStoreCard, "", groups)
}

func (b Builder) attach(style Style, transit TransitType, groups FieldGroups) Builder {
	slot := b.doc.slot(style)
	if slot == nil {
		return b.fail("unknown style %q", style)
	}
	*slot = newStyleFields(transit, groups)
	b.attached = append(slices.Clip(b.attached), style)
	return b
}

func (b Builder) WithSerialNumber(serial string) Builder {
	b.doc.SerialNumber = serial
	return b
}

func (b Builder) WithGroupingIdentifier(id string) Builder {
	b.doc.GroupingIdentifier = id
	return b
}

func (b Builder) WithLogoText(text string) Builder {
	b.doc.LogoText = text
	return b
}

func (b Builder) WithForegroundColor(c Color) Builder {
	b.doc.ForegroundColor = &c
	return b
}

func (b Builder) WithBackgroundColor(c Color) Builder {
	b.doc.BackgroundColor = &c
	return b
}

func (b Builder) WithLabelColor(c Color) Builder {
	b.doc.LabelColor = &c
	return b
}

// WithRelevantDate sets the date and time when the pass becomes relevant.
func (b Builder) WithRelevantDate(t time.Time) Builder {
	b.doc.RelevantDate = NewTimestamp(t)
	return b
}

func (b Builder) WithExpirationDate(t time.Time) Builder {
	b.doc.ExpirationDate = NewTimestamp(t)
	return b
}

func (b Builder) WithVoided(voided bool) Builder {
	b.doc.Voided = voided
	return b
}

// WithBarcode appends a barcode. The first barcode the device supports is displayed.
func (b Builder) WithBarcode(bc Barcode) Builder {
	b.doc.Barcodes = append(slices.Clip(b.doc.Barcodes), bc)
	return b
}

func (b Builder) WithLocation(l Location) Builder {
	b.doc.Locations = append(slices.Clip(b.doc.Locations), l.clone())
	return b
}

func (b Builder) WithBeacon(bc Beacon) Builder {
	b.doc.Beacons = append(slices.Clip(b.doc.Beacons), bc.clone())
	return b
}

// WithMaxDistance sets the distance in meters from a location at which the pass is relevant.
func (b Builder) WithMaxDistance(meters uint32) Builder {
	b.doc.MaxDistance = &meters
	return b
}

func (b Builder) WithAssociatedStoreIdentifiers(ids ...int64) Builder {
	b.doc.AssociatedStoreIdentifiers = slices.Clone(ids)
	return b
}

// WithAppLaunchURL sets the URL passed to the associated app. It requires
// associated store identifiers.
func (b Builder) WithAppLaunchURL(u string) Builder {
	b.doc.AppLaunchURL = u
	return b
}

// WithWebService sets the URL of the update service and the token the pass
// presents to it.
func (b Builder) WithWebService(serviceURL, authenticationToken string) Builder {
	b.doc.WebServiceURL = serviceURL
	b.doc.AuthenticationToken = authenticationToken
	return b
}

func (b Builder) WithSharingProhibited(prohibited bool) Builder {
	b.doc.SharingProhibited = prohibited
	return b
}

func (b Builder) WithSuppressStripShine(suppress bool) Builder {
	b.doc.SuppressStripShine = &suppress
	return b
}

func (b Builder) WithNFC(n NFC) Builder {
	b.doc.NFC = &n
	return b
}

func (b Builder) WithSemantics(tags SemanticTags) Builder {
	b.doc.Semantics = tags.clone()
	return b
}

// WithUserInfo attaches custom data for the issuer's app. v must encode to a
// JSON object.
func (b Builder) WithUserInfo(v any) Builder {
	raw, err := json.Marshal(v)
	if err != nil {
		return b.fail("userInfo: %v", err)
	}
	b.doc.UserInfo = raw
	return b
}

// fail records a problem that Build reports with the validation problems.
func (b Builder) fail(format string, args ...any) Builder {
	b.deferred = append(slices.Clip(b.deferred), fmt.Sprintf(format, args...))
	return b
}
