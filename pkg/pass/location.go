package pass

import "github.com/google/uuid"

const (
	maxLocations = 10
	maxBeacons   = 10
)

// Location is a place where the pass is relevant.
type Location struct {
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Altitude     *float64 `json:"altitude,omitempty"`
	RelevantText string   `json:"relevantText,omitempty"`
}

// Beacon is a Bluetooth Low Energy beacon near which the pass is relevant.
type Beacon struct {
	ProximityUUID string  `json:"proximityUUID"`
	Major         *uint16 `json:"major,omitempty"`
	Minor         *uint16 `json:"minor,omitempty"`
	RelevantText  string  `json:"relevantText,omitempty"`
}

func validCoordinates(lat, long float64) bool {
	return lat >= -90 && lat <= 90 && long >= -180 && long <= 180
}

func (l Location) clone() Location {
	l.Altitude = clonePtr(l.Altitude)
	return l
}

func (b Beacon) clone() Beacon {
	b.Major = clonePtr(b.Major)
	b.Minor = clonePtr(b.Minor)
	return b
}

func checkLocations(locations []Location, p *problems) {
	if len(locations) > maxLocations {
		p.addf("locations: at most %d are allowed, got %d", maxLocations, len(locations))
	}
	for i, l := range locations {
		if !validCoordinates(l.Latitude, l.Longitude) {
			p.addf("locations[%d]: (%g, %g) is out of range", i, l.Latitude, l.Longitude)
		}
	}
}

func checkBeacons(beacons []Beacon, p *problems) {
	if len(beacons) > maxBeacons {
		p.addf("beacons: at most %d are allowed, got %d", maxBeacons, len(beacons))
	}
	for i, b := range beacons {
		if _, err := uuid.Parse(b.ProximityUUID); err != nil {
			p.addf("beacons[%d]: proximityUUID %q is not a UUID", i, b.ProximityUUID)
		}
	}
}
