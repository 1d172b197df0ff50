package pass

import "slices"

// SemanticTags is machine-readable metadata the wallet uses to offer a pass
// and suggest related actions. It can be attached to the pass or to a field.
type SemanticTags struct {
	AirlineCode                    string                `json:"airlineCode,omitempty"`
	ArtistIDs                      []string              `json:"artistIDs,omitempty"`
	AwayTeamAbbreviation           string                `json:"awayTeamAbbreviation,omitempty"`
	AwayTeamLocation               string                `json:"awayTeamLocation,omitempty"`
	AwayTeamName                   string                `json:"awayTeamName,omitempty"`
	Balance                        *CurrencyAmount       `json:"balance,omitempty"`
	BoardingGroup                  string                `json:"boardingGroup,omitempty"`
	BoardingSequenceNumber         string                `json:"boardingSequenceNumber,omitempty"`
	CarNumber                      string                `json:"carNumber,omitempty"`
	ConfirmationNumber             string                `json:"confirmationNumber,omitempty"`
	CurrentArrivalDate             Timestamp             `json:"currentArrivalDate,omitzero"`
	CurrentBoardingDate            Timestamp             `json:"currentBoardingDate,omitzero"`
	CurrentDepartureDate           Timestamp             `json:"currentDepartureDate,omitzero"`
	DepartureAirportCode           string                `json:"departureAirportCode,omitempty"`
	DepartureAirportName           string                `json:"departureAirportName,omitempty"`
	DepartureGate                  string                `json:"departureGate,omitempty"`
	DepartureLocation              *SemanticLocation     `json:"departureLocation,omitempty"`
	DepartureLocationDescription   string                `json:"departureLocationDescription,omitempty"`
	DeparturePlatform              string                `json:"departurePlatform,omitempty"`
	DepartureStationName           string                `json:"departureStationName,omitempty"`
	DepartureTerminal              string                `json:"departureTerminal,omitempty"`
	DestinationAirportCode         string                `json:"destinationAirportCode,omitempty"`
	DestinationAirportName         string                `json:"destinationAirportName,omitempty"`
	DestinationGate                string                `json:"destinationGate,omitempty"`
	DestinationLocation            *SemanticLocation     `json:"destinationLocation,omitempty"`
	DestinationLocationDescription string                `json:"destinationLocationDescription,omitempty"`
	DestinationPlatform            string                `json:"destinationPlatform,omitempty"`
	DestinationStationName         string                `json:"destinationStationName,omitempty"`
	DestinationTerminal            string                `json:"destinationTerminal,omitempty"`
	Duration                       uint32                `json:"duration,omitempty"`
	EventEndDate                   Timestamp             `json:"eventEndDate,omitzero"`
	EventName                      string                `json:"eventName,omitempty"`
	EventStartDate                 Timestamp             `json:"eventStartDate,omitzero"`
	EventType                      EventType             `json:"eventType,omitempty"`
	FlightCode                     string                `json:"flightCode,omitempty"`
	FlightNumber                   uint32                `json:"flightNumber,omitempty"`
	Genre                          string                `json:"genre,omitempty"`
	HomeTeamAbbreviation           string                `json:"homeTeamAbbreviation,omitempty"`
	HomeTeamLocation               string                `json:"homeTeamLocation,omitempty"`
	HomeTeamName                   string                `json:"homeTeamName,omitempty"`
	LeagueAbbreviation             string                `json:"leagueAbbreviation,omitempty"`
	LeagueName                     string                `json:"leagueName,omitempty"`
	MembershipProgramName          string                `json:"membershipProgramName,omitempty"`
	MembershipProgramNumber        string                `json:"membershipProgramNumber,omitempty"`
	OriginalArrivalDate            Timestamp             `json:"originalArrivalDate,omitzero"`
	OriginalBoardingDate           Timestamp             `json:"originalBoardingDate,omitzero"`
	OriginalDepartureDate          Timestamp             `json:"originalDepartureDate,omitzero"`
	PassengerName                  *PersonNameComponents `json:"passengerName,omitempty"`
	PerformerNames                 []string              `json:"performerNames,omitempty"`
	PriorityStatus                 string                `json:"priorityStatus,omitempty"`
	Seats                          []Seat                `json:"seats,omitempty"`
	SecurityScreening              string                `json:"securityScreening,omitempty"`
	SilenceRequested               bool                  `json:"silenceRequested,omitempty"`
	SportName                      string                `json:"sportName,omitempty"`
	TotalPrice                     *CurrencyAmount       `json:"totalPrice,omitempty"`
	TransitProvider                string                `json:"transitProvider,omitempty"`
	TransitStatus                  string                `json:"transitStatus,omitempty"`
	TransitStatusReason            string                `json:"transitStatusReason,omitempty"`
	VehicleName                    string                `json:"vehicleName,omitempty"`
	VehicleNumber                  string                `json:"vehicleNumber,omitempty"`
	VehicleType                    string                `json:"vehicleType,omitempty"`
	VenueEntrance                  string                `json:"venueEntrance,omitempty"`
	VenueLocation                  *SemanticLocation     `json:"venueLocation,omitempty"`
	VenueName                      string                `json:"venueName,omitempty"`
	VenuePhoneNumber               string                `json:"venuePhoneNumber,omitempty"`
	VenueRoom                      string                `json:"venueRoom,omitempty"`
	WifiAccess                     []WifiNetwork         `json:"wifiAccess,omitempty"`
}

// CurrencyAmount is a semantic amount; Amount is kept as a decimal string.
type CurrencyAmount struct {
	Amount       string `json:"amount,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

type SemanticLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PersonNameComponents struct {
	FamilyName             string `json:"familyName,omitempty"`
	GivenName              string `json:"givenName,omitempty"`
	MiddleName             string `json:"middleName,omitempty"`
	NamePrefix             string `json:"namePrefix,omitempty"`
	NameSuffix             string `json:"nameSuffix,omitempty"`
	Nickname               string `json:"nickname,omitempty"`
	PhoneticRepresentation string `json:"phoneticRepresentation,omitempty"`
}

type Seat struct {
	SeatDescription string `json:"seatDescription,omitempty"`
	SeatIdentifier  string `json:"seatIdentifier,omitempty"`
	SeatNumber      string `json:"seatNumber,omitempty"`
	SeatRow         string `json:"seatRow,omitempty"`
	SeatSection     string `json:"seatSection,omitempty"`
	SeatType        string `json:"seatType,omitempty"`
}

type WifiNetwork struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

func (s SemanticTags) clone() SemanticTags {
	c := s
	c.ArtistIDs = slices.Clone(s.ArtistIDs)
	c.PerformerNames = slices.Clone(s.PerformerNames)
	c.Seats = slices.Clone(s.Seats)
	c.WifiAccess = slices.Clone(s.WifiAccess)
	c.Balance = clonePtr(s.Balance)
	c.TotalPrice = clonePtr(s.TotalPrice)
	c.DepartureLocation = clonePtr(s.DepartureLocation)
	c.DestinationLocation = clonePtr(s.DestinationLocation)
	c.VenueLocation = clonePtr(s.VenueLocation)
	c.PassengerName = clonePtr(s.PassengerName)
	return c
}

// check appends the problems found in s, prefixing each with where.
func (s SemanticTags) check(where string, p *problems) {
	if !s.EventType.valid() {
		p.addf("%s: unknown eventType %q", where, s.EventType)
	}
	for _, amount := range []*CurrencyAmount{s.Balance, s.TotalPrice} {
		if amount != nil && amount.CurrencyCode != "" && !currencyCodePattern.MatchString(amount.CurrencyCode) {
			p.addf("%s: invalid currency code %q", where, amount.CurrencyCode)
		}
	}
	for _, loc := range []*SemanticLocation{s.DepartureLocation, s.DestinationLocation, s.VenueLocation} {
		if loc != nil && !validCoordinates(loc.Latitude, loc.Longitude) {
			p.addf("%s: location (%g, %g) is out of range", where, loc.Latitude, loc.Longitude)
		}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
