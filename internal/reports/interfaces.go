package reports

import (
	"github.com/tailscan/tailscan/internal/standingdata"
)

// FlightStore is the flight database consumed by report execution. All
// pagination parameters are 0-based inclusive bounds; -1 means unbounded.
type FlightStore interface {
	GetCountOfFlights(criteria *SearchCriteria) (int, error)
	GetFlights(criteria *SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*Flight, error)
	GetCountOfFlightsForAircraft(aircraft *Aircraft, criteria *SearchCriteria) (int, error)
	GetFlightsForAircraft(aircraft *Aircraft, criteria *SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*Flight, error)
	GetAircraftByCode(icao24 string) (*Aircraft, error)
	GetAircraftByRegistration(registration string) (*Aircraft, error)
}

// StandingDataProvider is the static reference data source. A nil result is
// a normal not-found outcome, never an error.
type StandingDataProvider interface {
	FindAircraftType(icaoTypeCode string) *standingdata.AircraftType
	FindCodeBlock(icao24 string) *standingdata.CodeBlock
	FindRoute(callsign string) *standingdata.Route
}

// CallsignParser produces the ordered candidate callsigns to try when
// resolving a flight's route
type CallsignParser interface {
	AllRouteCallsigns(callsign, operatorCode string) []string
}

// PictureManager resolves aircraft pictures and image directory availability
type PictureManager interface {
	FindPicture(registration string) *Picture
	SilhouettesAvailable() bool
	OperatorFlagsAvailable() bool
}
