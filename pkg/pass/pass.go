// Package pass models a single wallet pass: the pass.json document, its style
// and field groups, and the invariants a pass must satisfy.
//
// A *Pass is always valid. It is created by Builder.Build or Parse, both of
// which run the same exhaustive validation. The only mutation a pass allows
// after construction is replacing field values by key (see SetValue).
package pass

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
)

// Pass is a validated wallet pass.
type Pass struct {
	doc   document
	style Style
	index map[string]locator
}

// newPass validates doc and takes ownership of it.
func newPass(doc document, attached []Style) (*Pass, error) {
	if err := doc.validate(attached); err != nil {
		return nil, err
	}
	p := &Pass{doc: doc, style: attached[0]}
	p.index = buildIndex(p.doc.fields(p.style))
	return p, nil
}

// Parse decodes pass.json and validates it. Unknown keys are ignored.
func Parse(data []byte) (*Pass, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, WrapInvalidJSONError(err, "failed to decode pass.json")
	}
	return newPass(doc, doc.styles())
}

// MarshalJSON returns the canonical (RFC 8785) pass.json encoding of the pass.
// Identical passes always produce identical bytes.
func (p *Pass) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(p.doc)
	if err != nil {
		return nil, err
	}
	return crypto.CanonicalizeJSON(raw)
}

// Equal reports whether both passes have the same canonical encoding.
func (p *Pass) Equal(o *Pass) bool {
	if p == nil || o == nil {
		return p == o
	}
	a, err := p.MarshalJSON()
	if err != nil {
		return false
	}
	b, err := o.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Clone returns a deep copy that can be personalised independently.
func (p *Pass) Clone() *Pass {
	return &Pass{doc: p.doc.clone(), style: p.style, index: maps.Clone(p.index)}
}

// ToBuilder returns a builder seeded with a copy of the pass.
func (p *Pass) ToBuilder() Builder {
	return Builder{doc: p.doc.clone(), attached: []Style{p.style}}
}

// FormatVersion returns the pass.json format version (always 1).
func (p *Pass) FormatVersion() int { return p.doc.FormatVersion }

// PassTypeIdentifier returns the pass type identifier the signing certificate is issued for.
func (p *Pass) PassTypeIdentifier() string { return p.doc.PassTypeIdentifier }

// SerialNumber returns the serial number, unique per pass type.
func (p *Pass) SerialNumber() string { return p.doc.SerialNumber }

// TeamIdentifier returns the team identifier of the issuer.
func (p *Pass) TeamIdentifier() string { return p.doc.TeamIdentifier }

// OrganizationName returns the name of the issuing organization.
func (p *Pass) OrganizationName() string { return p.doc.OrganizationName }

// Description returns the accessibility description of the pass.
func (p *Pass) Description() string { return p.doc.Description }

// GroupingIdentifier returns the identifier used to group related passes, if any.
func (p *Pass) GroupingIdentifier() string { return p.doc.GroupingIdentifier }

// LogoText returns the text displayed next to the logo, if any.
func (p *Pass) LogoText() string { return p.doc.LogoText }

// Voided reports whether the pass has been voided.
func (p *Pass) Voided() bool { return p.doc.Voided }

// SharingProhibited reports whether sharing the pass is disabled.
func (p *Pass) SharingProhibited() bool { return p.doc.SharingProhibited }

// AppLaunchURL returns the URL passed to the associated app, if any.
func (p *Pass) AppLaunchURL() string { return p.doc.AppLaunchURL }

// Style returns the pass style.
func (p *Pass) Style() Style { return p.style }

// TransitType returns the transit type of a boarding pass, or "" for other styles.
func (p *Pass) TransitType() TransitType {
	return p.doc.fields(p.style).TransitType
}

// Fields returns a copy of the field groups of the pass style, in display order.
func (p *Pass) Fields() FieldGroups {
	return p.doc.fields(p.style).groups().clone()
}

// Barcodes returns the barcodes in order of preference.
func (p *Pass) Barcodes() []Barcode { return slices.Clone(p.doc.Barcodes) }

// Locations returns a copy of the locations the pass is relevant at.
func (p *Pass) Locations() []Location {
	if p.doc.Locations == nil {
		return nil
	}
	out := make([]Location, len(p.doc.Locations))
	for i, l := range p.doc.Locations {
		out[i] = l.clone()
	}
	return out
}

// Beacons returns a copy of the beacons the pass is relevant near.
func (p *Pass) Beacons() []Beacon {
	if p.doc.Beacons == nil {
		return nil
	}
	out := make([]Beacon, len(p.doc.Beacons))
	for i, b := range p.doc.Beacons {
		out[i] = b.clone()
	}
	return out
}

// MaxDistance returns the relevance radius in meters, if set.
func (p *Pass) MaxDistance() (uint32, bool) {
	if p.doc.MaxDistance == nil {
		return 0, false
	}
	return *p.doc.MaxDistance, true
}

// RelevantDate returns the date the pass becomes relevant, if set.
func (p *Pass) RelevantDate() (time.Time, bool) {
	return p.doc.RelevantDate.Time, !p.doc.RelevantDate.IsZero()
}

// ExpirationDate returns the date the pass expires, if set.
func (p *Pass) ExpirationDate() (time.Time, bool) {
	return p.doc.ExpirationDate.Time, !p.doc.ExpirationDate.IsZero()
}

// AssociatedStoreIdentifiers returns the app store identifiers of the associated apps.
func (p *Pass) AssociatedStoreIdentifiers() []int64 {
	return slices.Clone(p.doc.AssociatedStoreIdentifiers)
}

// WebService returns the update service URL and authentication token, if set.
func (p *Pass) WebService() (url, token string, ok bool) {
	return p.doc.WebServiceURL, p.doc.AuthenticationToken, p.doc.WebServiceURL != ""
}

// ForegroundColor returns the color of field values, if set.
func (p *Pass) ForegroundColor() (Color, bool) { return derefColor(p.doc.ForegroundColor) }

// BackgroundColor returns the background color, if set.
func (p *Pass) BackgroundColor() (Color, bool) { return derefColor(p.doc.BackgroundColor) }

// LabelColor returns the color of field labels, if set.
func (p *Pass) LabelColor() (Color, bool) { return derefColor(p.doc.LabelColor) }

// SuppressStripShine reports whether the shine effect on the strip image is disabled.
func (p *Pass) SuppressStripShine() bool {
	return p.doc.SuppressStripShine != nil && *p.doc.SuppressStripShine
}

// NFC returns the NFC payload, if set.
func (p *Pass) NFC() (NFC, bool) {
	if p.doc.NFC == nil {
		return NFC{}, false
	}
	return *p.doc.NFC, true
}

// Semantics returns a copy of the pass-level semantic tags.
func (p *Pass) Semantics() SemanticTags { return p.doc.Semantics.clone() }

// UserInfo returns the custom JSON object attached to the pass, if any.
func (p *Pass) UserInfo() json.RawMessage { return bytes.Clone(p.doc.UserInfo) }

func derefColor(c *Color) (Color, bool) {
	if c == nil {
		return Color{}, false
	}
	return *c, true
}
