package pass

import (
	"bytes"
	"encoding/json"
	"slices"
)

// FormatVersion is the only pass.json format version.
const FormatVersion = 1

// document mirrors the pass.json object. Every pass and builder owns one.
type document struct {
	FormatVersion      int    `json:"formatVersion"`
	PassTypeIdentifier string `json:"passTypeIdentifier"`
	SerialNumber       string `json:"serialNumber"`
	TeamIdentifier     string `json:"teamIdentifier"`
	OrganizationName   string `json:"organizationName"`
	Description        string `json:"description"`

	GroupingIdentifier string `json:"groupingIdentifier,omitempty"`
	LogoText           string `json:"logoText,omitempty"`
	ForegroundColor    *Color `json:"foregroundColor,omitempty"`
	BackgroundColor    *Color `json:"backgroundColor,omitempty"`
	LabelColor         *Color `json:"labelColor,omitempty"`

	Barcodes     []Barcode  `json:"barcodes,omitempty"`
	Locations    []Location `json:"locations,omitempty"`
	Beacons      []Beacon   `json:"beacons,omitempty"`
	MaxDistance  *uint32    `json:"maxDistance,omitempty"`
	RelevantDate Timestamp  `json:"relevantDate,omitzero"`

	ExpirationDate Timestamp `json:"expirationDate,omitzero"`
	Voided         bool      `json:"voided,omitempty"`

	AssociatedStoreIdentifiers []int64 `json:"associatedStoreIdentifiers,omitempty"`
	AppLaunchURL               string  `json:"appLaunchURL,omitempty"`

	WebServiceURL       string `json:"webServiceURL,omitempty"`
	AuthenticationToken string `json:"authenticationToken,omitempty"`

	SharingProhibited  bool            `json:"sharingProhibited,omitempty"`
	SuppressStripShine *bool           `json:"suppressStripShine,omitempty"`
	NFC                *NFC            `json:"nfc,omitempty"`
	Semantics          SemanticTags    `json:"semantics,omitzero"`
	UserInfo           json.RawMessage `json:"userInfo,omitempty"`

	BoardingPass *styleFields `json:"boardingPass,omitempty"`
	Coupon       *styleFields `json:"coupon,omitempty"`
	EventTicket  *styleFields `json:"eventTicket,omitempty"`
	Generic      *styleFields `json:"generic,omitempty"`
	StoreCard    *styleFields `json:"storeCard,omitempty"`
}

// slot returns the address of the style's pointer in d.
func (d *document) slot(s Style) **styleFields {
	switch s {
	case StyleBoardingPass:
		return &d.BoardingPass
	case StyleCoupon:
		return &d.Coupon
	case StyleEventTicket:
		return &d.EventTicket
	case StyleGeneric:
		return &d.Generic
	case StyleStoreCard:
		return &d.StoreCard
	}
	return nil
}

func (d *document) fields(s Style) *styleFields {
	if slot := d.slot(s); slot != nil {
		return *slot
	}
	return nil
}

// styles lists the styles carrying fields, in pass.json key order.
func (d *document) styles() []Style {
	var out []Style
	for _, s := range Styles {
		if d.fields(s) != nil {
			out = append(out, s)
		}
	}
	return out
}

func (d document) clone() document {
	c := d
	c.ForegroundColor = clonePtr(d.ForegroundColor)
	c.BackgroundColor = clonePtr(d.BackgroundColor)
	c.LabelColor = clonePtr(d.LabelColor)
	c.Barcodes = slices.Clone(d.Barcodes)
	c.Locations = nil
	for _, l := range d.Locations {
		c.Locations = append(c.Locations, l.clone())
	}
	c.Beacons = nil
	for _, b := range d.Beacons {
		c.Beacons = append(c.Beacons, b.clone())
	}
	c.MaxDistance = clonePtr(d.MaxDistance)
	c.AssociatedStoreIdentifiers = slices.Clone(d.AssociatedStoreIdentifiers)
	c.SuppressStripShine = clonePtr(d.SuppressStripShine)
	c.NFC = clonePtr(d.NFC)
	c.Semantics = d.Semantics.clone()
	c.UserInfo = bytes.Clone(d.UserInfo)
	for _, s := range Styles {
		slot := c.slot(s)
		*slot = (*slot).clone()
	}
	return c
}
