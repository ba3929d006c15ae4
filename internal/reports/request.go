package reports

import (
	"time"

	"github.com/tailscan/tailscan/internal/standingdata"
)

// ReportKind selects the shape of a report
type ReportKind int

const (
	// KindByDate reports all flights matching the criteria
	KindByDate ReportKind = iota
	// KindByICAO reports the flights of a single aircraft selected by ICAO24
	KindByICAO
	// KindByRegistration reports the flights of a single aircraft selected
	// by registration
	KindByRegistration
)

func (k ReportKind) String() string {
	switch k {
	case KindByDate:
		return "date"
	case KindByICAO:
		return "icao"
	case KindByRegistration:
		return "reg"
	}
	return "unknown"
}

// Sort field names accepted in report requests
const (
	SortByDate          = "date"
	SortByCallsign      = "callsign"
	SortByICAO          = "icao"
	SortByRegistration  = "reg"
	SortByType          = "type"
	SortByModel         = "model"
	SortByOperator      = "operator"
	SortByCountry       = "country"
	SortByFirstAltitude = "firstalt"
	SortByLastAltitude  = "lastalt"
)

// ReportRequest is a fully parsed report request. Nil predicate fields are
// inactive. FromRow/ToRow are 0-based inclusive; -1 means unbounded.
type ReportRequest struct {
	Kind ReportKind

	FromRow int
	ToRow   int

	SortField1     string
	SortAscending1 bool
	SortField2     string
	SortAscending2 bool

	// Database-evaluable predicates
	DateFrom          *time.Time
	DateTo            *time.Time
	ICAO24            *string
	Registration      *string
	Callsign          *string
	IsEmergency       *bool
	Operator          *string
	Country           *string
	ICAOTypeCode      *string
	FirstAltitudeFrom *int
	FirstAltitudeTo   *int
	LastAltitudeFrom  *int
	LastAltitudeTo    *int

	// Predicates that require reference data and are evaluated after fetch
	IsMilitary             *bool
	Species                *standingdata.Species
	WakeTurbulenceCategory *standingdata.WakeTurbulenceCategory

	// UseAlternateCallsigns widens the callsign filter to every route
	// callsign permutation of the requested callsign
	UseAlternateCallsigns bool

	// IsInternetClient marks requests arriving from internet-facing
	// clients, which may be configured to never receive picture details
	IsInternetClient bool
}
