package pass

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
)

const minAuthenticationTokenLength = 16

// validate collects every invariant d violates. attached lists the styles that
// were set, in the order they were set.
func (d *document) validate(attached []Style) error {
	var p problems

	if d.FormatVersion != FormatVersion {
		p.addf("formatVersion must be %d, got %d", FormatVersion, d.FormatVersion)
	}
	for _, req := range []struct{ name, value string }{
		{"passTypeIdentifier", d.PassTypeIdentifier},
		{"serialNumber", d.SerialNumber},
		{"teamIdentifier", d.TeamIdentifier},
		{"organizationName", d.OrganizationName},
		{"description", d.Description},
	} {
		if strings.TrimSpace(req.value) == "" {
			p.addf("%s is required", req.name)
		}
	}

	switch len(attached) {
	case 0:
		p.addf("a style is required (one of boardingPass, coupon, eventTicket, generic, storeCard)")
	case 1:
	default:
		names := make([]string, len(attached))
		for i, s := range attached {
			names[i] = string(s)
		}
		p.addf("exactly one style is allowed, got %s", strings.Join(names, ", "))
	}
	for _, s := range d.styles() {
		d.fields(s).check(s, &p)
	}

	for i, b := range d.Barcodes {
		b.check(i, &p)
	}
	checkLocations(d.Locations, &p)
	checkBeacons(d.Beacons, &p)
	d.NFC.check(&p)
	d.Semantics.check("semantics", &p)

	if (d.WebServiceURL == "") != (d.AuthenticationToken == "") {
		p.addf("webServiceURL and authenticationToken must be set together")
	}
	if d.WebServiceURL != "" {
		if u, err := url.Parse(d.WebServiceURL); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			p.addf("webServiceURL %q must be an http or https URL", d.WebServiceURL)
		}
	}
	if d.AuthenticationToken != "" && len(d.AuthenticationToken) < minAuthenticationTokenLength {
		p.addf("authenticationToken must be at least %d characters", minAuthenticationTokenLength)
	}

	if d.AppLaunchURL != "" && len(d.AssociatedStoreIdentifiers) == 0 {
		p.addf("appLaunchURL requires associatedStoreIdentifiers")
	}
	for i, id := range d.AssociatedStoreIdentifiers {
		if id <= 0 {
			p.addf("associatedStoreIdentifiers[%d]: %d is not a store identifier", i, id)
		}
	}

	if len(d.UserInfo) > 0 && !bytes.HasPrefix(bytes.TrimSpace(d.UserInfo), []byte("{")) {
		p.addf("userInfo must be a JSON object")
	}

	return p.err()
}

func (s *styleFields) check(style Style, p *problems) {
	if style == StyleBoardingPass {
		if s.TransitType == "" {
			p.addf("boardingPass: transitType is required")
		} else if !s.TransitType.valid() {
			p.addf("boardingPass: unknown transitType %q", s.TransitType)
		}
	} else if s.TransitType != "" {
		p.addf("%s: transitType is only allowed on boardingPass", style)
	}

	seen := make(map[string]string)
	for _, kind := range Groups {
		for i, f := range *s.group(kind) {
			where := style.fieldPath(kind, i)
			if f.Key == "" {
				p.addf("%s: key is required", where)
			} else if prev, dup := seen[f.Key]; dup {
				p.addf("%s: key %q is already used by %s", where, f.Key, prev)
			} else {
				seen[f.Key] = where
			}
			f.check(kind, where, p)
		}
	}
}

func (s Style) fieldPath(kind GroupKind, i int) string {
	return fmt.Sprintf("%s.%s[%d]", s, kind, i)
}

func (f *Field) check(kind GroupKind, where string, p *problems) {
	if reason := f.Value.problem(f); reason != "" {
		p.addf("%s: %s", where, reason)
	}
	if f.TextAlignment != "" && (kind == GroupPrimary || kind == GroupBack) {
		p.addf("%s: textAlignment is not allowed on %s", where, kind)
	}
	if f.Row != nil {
		if kind != GroupAuxiliary {
			p.addf("%s: row is only allowed on auxiliaryFields", where)
		} else if *f.Row != 0 && *f.Row != 1 {
			p.addf("%s: row must be 0 or 1, got %d", where, *f.Row)
		}
	}
	if !f.DateStyle.valid() {
		p.addf("%s: unknown dateStyle %q", where, f.DateStyle)
	}
	if !f.TimeStyle.valid() {
		p.addf("%s: unknown timeStyle %q", where, f.TimeStyle)
	}
	if !f.NumberStyle.valid() {
		p.addf("%s: unknown numberStyle %q", where, f.NumberStyle)
	}
	if !f.TextAlignment.valid() {
		p.addf("%s: unknown textAlignment %q", where, f.TextAlignment)
	}
	for _, d := range f.DataDetectorTypes {
		if !d.valid() {
			p.addf("%s: unknown data detector %q", where, d)
		}
	}
	if f.ChangeMessage != "" && !strings.Contains(f.ChangeMessage, "%@") {
		p.addf("%s: changeMessage must contain %%@", where)
	}
	f.Semantics.check(where+".semantics", p)
}
