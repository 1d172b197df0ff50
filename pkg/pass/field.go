package pass

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Field is the information displayed in one field of a pass.
type Field struct {
	// Key identifies the field; it is unique across every group of the pass.
	Key   string
	Label string
	Value Value

	// AttributedValue overrides Value for display and may contain <a> links.
	AttributedValue string
	// ChangeMessage is the update notification text; it must contain "%@".
	ChangeMessage string

	DateStyle       DateStyle
	TimeStyle       DateStyle
	IgnoresTimeZone bool
	IsRelative      bool
	NumberStyle     NumberStyle
	TextAlignment   TextAlignment

	DataDetectorTypes []DataDetectorType

	// Row places an auxiliary field on the first (0) or second (1) row.
	Row *int

	Semantics SemanticTags
}

type fieldJSON struct {
	Key               string             `json:"key"`
	Label             string             `json:"label,omitempty"`
	Value             json.RawMessage    `json:"value"`
	CurrencyCode      string             `json:"currencyCode,omitempty"`
	AttributedValue   string             `json:"attributedValue,omitempty"`
	ChangeMessage     string             `json:"changeMessage,omitempty"`
	DateStyle         DateStyle          `json:"dateStyle,omitempty"`
	TimeStyle         DateStyle          `json:"timeStyle,omitempty"`
	IgnoresTimeZone   bool               `json:"ignoresTimeZone,omitempty"`
	IsRelative        bool               `json:"isRelative,omitempty"`
	NumberStyle       NumberStyle        `json:"numberStyle,omitempty"`
	TextAlignment     TextAlignment      `json:"textAlignment,omitempty"`
	DataDetectorTypes []DataDetectorType `json:"dataDetectorTypes,omitempty"`
	Row               *int               `json:"row,omitempty"`
	Semantics         SemanticTags       `json:"semantics,omitzero"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	raw, currency, err := f.Value.marshalValue()
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Key, err)
	}
	return json.Marshal(fieldJSON{
		Key:               f.Key,
		Label:             f.Label,
		Value:             raw,
		CurrencyCode:      currency,
		AttributedValue:   f.AttributedValue,
		ChangeMessage:     f.ChangeMessage,
		DateStyle:         f.DateStyle,
		TimeStyle:         f.TimeStyle,
		IgnoresTimeZone:   f.IgnoresTimeZone,
		IsRelative:        f.IsRelative,
		NumberStyle:       f.NumberStyle,
		TextAlignment:     f.TextAlignment,
		DataDetectorTypes: f.DataDetectorTypes,
		Row:               f.Row,
		Semantics:         f.Semantics,
	})
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var fj fieldJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	dated := fj.DateStyle != "" || fj.TimeStyle != ""
	value, err := unmarshalValue(fj.Value, fj.CurrencyCode, dated)
	if err != nil {
		return fmt.Errorf("field %q: %w", fj.Key, err)
	}
	*f = Field{
		Key:               fj.Key,
		Label:             fj.Label,
		Value:             value,
		AttributedValue:   fj.AttributedValue,
		ChangeMessage:     fj.ChangeMessage,
		DateStyle:         fj.DateStyle,
		TimeStyle:         fj.TimeStyle,
		IgnoresTimeZone:   fj.IgnoresTimeZone,
		IsRelative:        fj.IsRelative,
		NumberStyle:       fj.NumberStyle,
		TextAlignment:     fj.TextAlignment,
		DataDetectorTypes: fj.DataDetectorTypes,
		Row:               fj.Row,
		Semantics:         fj.Semantics,
	}
	return nil
}

func (f Field) clone() Field {
	c := f
	c.DataDetectorTypes = slices.Clone(f.DataDetectorTypes)
	if f.Row != nil {
		row := *f.Row
		c.Row = &row
	}
	c.Semantics = f.Semantics.clone()
	return c
}

// FieldGroups holds the ordered field groups of a style.
type FieldGroups struct {
	Header    []Field
	Primary   []Field
	Secondary []Field
	Auxiliary []Field
	Back      []Field
}

// Group returns the fields of one group.
func (g FieldGroups) Group(kind GroupKind) []Field {
	switch kind {
	case GroupHeader:
		return g.Header
	case GroupPrimary:
		return g.Primary
	case GroupSecondary:
		return g.Secondary
	case GroupAuxiliary:
		return g.Auxiliary
	case GroupBack:
		return g.Back
	}
	return nil
}

func (g FieldGroups) clone() FieldGroups {
	return FieldGroups{
		Header:    cloneFields(g.Header),
		Primary:   cloneFields(g.Primary),
		Secondary: cloneFields(g.Secondary),
		Auxiliary: cloneFields(g.Auxiliary),
		Back:      cloneFields(g.Back),
	}
}

// Len returns the number of fields in all groups.
func (g FieldGroups) Len() int {
	return len(g.Header) + len(g.Primary) + len(g.Secondary) + len(g.Auxiliary) + len(g.Back)
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.clone()
	}
	return out
}

// styleFields is the pass.json object stored under the style key.
type styleFields struct {
	TransitType     TransitType `json:"transitType,omitempty"`
	HeaderFields    []Field     `json:"headerFields,omitempty"`
	PrimaryFields   []Field     `json:"primaryFields,omitempty"`
	SecondaryFields []Field     `json:"secondaryFields,omitempty"`
	AuxiliaryFields []Field     `json:"auxiliaryFields,omitempty"`
	BackFields      []Field     `json:"backFields,omitempty"`
}

func newStyleFields(transit TransitType, groups FieldGroups) *styleFields {
	g := groups.clone()
	return &styleFields{
		TransitType:     transit,
		HeaderFields:    g.Header,
		PrimaryFields:   g.Primary,
		SecondaryFields: g.Secondary,
		AuxiliaryFields: g.Auxiliary,
		BackFields:      g.Back,
	}
}

// group returns a pointer to the slice of one group so fields can be updated in place.
func (s *styleFields) group(kind GroupKind) *[]Field {
	switch kind {
	case GroupHeader:
		return &s.HeaderFields
	case GroupPrimary:
		return &s.PrimaryFields
	case GroupSecondary:
		return &s.SecondaryFields
	case GroupAuxiliary:
		return &s.AuxiliaryFields
	case GroupBack:
		return &s.BackFields
	}
	return nil
}

func (s *styleFields) groups() FieldGroups {
	return FieldGroups{
		Header:    s.HeaderFields,
		Primary:   s.PrimaryFields,
		Secondary: s.SecondaryFields,
		Auxiliary: s.AuxiliaryFields,
		Back:      s.BackFields,
	}
}

func (s *styleFields) clone() *styleFields {
	if s == nil {
		return nil
	}
	return newStyleFields(s.TransitType, s.groups())
}
