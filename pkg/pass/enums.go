package pass

// Style is the mutually exclusive pass category. Its value is the pass.json key
// that carries the style's field groups.
type Style string

const (
	StyleBoardingPass Style = "boardingPass"
	StyleCoupon       Style = "coupon"
	StyleEventTicket  Style = "eventTicket"
	StyleGeneric      Style = "generic"
	StyleStoreCard    Style = "storeCard"
)

// Styles lists every style in pass.json key order.
var Styles = []Style{StyleBoardingPass, StyleCoupon, StyleEventTicket, StyleGeneric, StyleStoreCard}

func (s Style) valid() bool {
	for _, v := range Styles {
		if s == v {
			return true
		}
	}
	return false
}

// GroupKind identifies one of the field groups of a style.
type GroupKind int

const (
	GroupHeader GroupKind = iota
	GroupPrimary
	GroupSecondary
	GroupAuxiliary
	GroupBack
)

// Groups lists the field groups in display order.
var Groups = []GroupKind{GroupHeader, GroupPrimary, GroupSecondary, GroupAuxiliary, GroupBack}

func (g GroupKind) String() string {
	switch g {
	case GroupHeader:
		return "headerFields"
	case GroupPrimary:
		return "primaryFields"
	case GroupSecondary:
		return "secondaryFields"
	case GroupAuxiliary:
		return "auxiliaryFields"
	case GroupBack:
		return "backFields"
	}
	return "unknownFields"
}

// TransitType is the type of transit of a boarding pass.
type TransitType string

const (
	TransitAir     TransitType = "PKTransitTypeAir"
	TransitBoat    TransitType = "PKTransitTypeBoat"
	TransitBus     TransitType = "PKTransitTypeBus"
	TransitGeneric TransitType = "PKTransitTypeGeneric"
	TransitTrain   TransitType = "PKTransitTypeTrain"
)

func (t TransitType) valid() bool {
	switch t {
	case TransitAir, TransitBoat, TransitBus, TransitGeneric, TransitTrain:
		return true
	}
	return false
}

// DateStyle controls how a date or time value is displayed.
type DateStyle string

const (
	DateStyleNone   DateStyle = "PKDateStyleNone"
	DateStyleShort  DateStyle = "PKDateStyleShort"
	DateStyleMedium DateStyle = "PKDateStyleMedium"
	DateStyleLong   DateStyle = "PKDateStyleLong"
	DateStyleFull   DateStyle = "PKDateStyleFull"
)

func (s DateStyle) valid() bool {
	switch s {
	case "", DateStyleNone, DateStyleShort, DateStyleMedium, DateStyleLong, DateStyleFull:
		return true
	}
	return false
}

// NumberStyle controls how a number value is displayed.
type NumberStyle string

const (
	NumberStyleDecimal    NumberStyle = "PKNumberStyleDecimal"
	NumberStylePercent    NumberStyle = "PKNumberStylePercent"
	NumberStyleScientific NumberStyle = "PKNumberStyleScientific"
	NumberStyleSpellOut   NumberStyle = "PKNumberStyleSpellOut"
)

func (s NumberStyle) valid() bool {
	switch s {
	case "", NumberStyleDecimal, NumberStylePercent, NumberStyleScientific, NumberStyleSpellOut:
		return true
	}
	return false
}

// TextAlignment is the alignment of a field's content.
type TextAlignment string

const (
	AlignLeft    TextAlignment = "PKTextAlignmentLeft"
	AlignCenter  TextAlignment = "PKTextAlignmentCenter"
	AlignRight   TextAlignment = "PKTextAlignmentRight"
	AlignNatural TextAlignment = "PKTextAlignmentNatural"
)

func (a TextAlignment) valid() bool {
	switch a {
	case "", AlignLeft, AlignCenter, AlignRight, AlignNatural:
		return true
	}
	return false
}

// DataDetectorType is a data detector applied to a back field.
type DataDetectorType string

const (
	DetectPhoneNumber   DataDetectorType = "PKDataDetectorTypePhoneNumber"
	DetectLink          DataDetectorType = "PKDataDetectorTypeLink"
	DetectAddress       DataDetectorType = "PKDataDetectorTypeAddress"
	DetectCalendarEvent DataDetectorType = "PKDataDetectorTypeCalendarEvent"
)

func (d DataDetectorType) valid() bool {
	switch d {
	case DetectPhoneNumber, DetectLink, DetectAddress, DetectCalendarEvent:
		return true
	}
	return false
}

// EventType is the semantic category of an event ticket.
type EventType string

const (
	EventGeneric         EventType = "PKEventTypeGeneric"
	EventLivePerformance EventType = "PKEventTypeLivePerformance"
	EventMovie           EventType = "PKEventTypeMovie"
	EventSports          EventType = "PKEventTypeSports"
	EventConference      EventType = "PKEventTypeConference"
	EventConvention      EventType = "PKEventTypeConvention"
	EventWorkshop        EventType = "PKEventTypeWorkshop"
	EventSocialGathering EventType = "PKEventTypeSocialGathering"
)

func (e EventType) valid() bool {
	switch e {
	case "", EventGeneric, EventLivePerformance, EventMovie, EventSports,
		EventConference, EventConvention, EventWorkshop, EventSocialGathering:
		return true
	}
	return false
}
