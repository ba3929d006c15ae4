// Package standingdata provides lookups into the static aircraft reference
// database: type designators, ICAO24 code blocks and callsign routes.
package standingdata

// Species is the broad airframe classification of an aircraft type
type Species int

const (
	SpeciesNone Species = iota
	SpeciesLandplane
	SpeciesSeaplane
	SpeciesAmphibian
	SpeciesHelicopter
	SpeciesGyrocopter
	SpeciesTiltwing
)

func (s Species) String() string {
	switch s {
	case SpeciesLandplane:
		return "landplane"
	case SpeciesSeaplane:
		return "seaplane"
	case SpeciesAmphibian:
		return "amphibian"
	case SpeciesHelicopter:
		return "helicopter"
	case SpeciesGyrocopter:
		return "gyrocopter"
	case SpeciesTiltwing:
		return "tiltwing"
	}
	return "none"
}

// WakeTurbulenceCategory is the ICAO wake turbulence class
type WakeTurbulenceCategory int

const (
	WTCNone WakeTurbulenceCategory = iota
	WTCLight
	WTCMedium
	WTCHeavy
)

func (w WakeTurbulenceCategory) String() string {
	switch w {
	case WTCLight:
		return "light"
	case WTCMedium:
		return "medium"
	case WTCHeavy:
		return "heavy"
	}
	return "none"
}

// EngineType is the propulsion class of an aircraft type
type EngineType int

const (
	EngineTypeNone EngineType = iota
	EngineTypePiston
	EngineTypeTurboprop
	EngineTypeJet
	EngineTypeElectric
)

func (e EngineType) String() string {
	switch e {
	case EngineTypePiston:
		return "piston"
	case EngineTypeTurboprop:
		return "turboprop"
	case EngineTypeJet:
		return "jet"
	case EngineTypeElectric:
		return "electric"
	}
	return "none"
}

// AircraftType is one row of the ICAO 8643 type designator table
type AircraftType struct {
	ICAOTypeCode string
	Species      Species
	WTC          WakeTurbulenceCategory
	Engines      string // engine count as published, e.g. "2" or "C" for coupled
	EngineType   EngineType
}

// CodeBlock maps a range of ICAO24 addresses to the registering country and
// whether the range is reserved for military use
type CodeBlock struct {
	Country    string
	IsMilitary bool
}

// Airport is a single airport referenced by a route
type Airport struct {
	ICAO    string
	IATA    string
	Name    string
	Country string
}

// Route is the scheduled route flown under a callsign
type Route struct {
	Callsign  string
	From      *Airport
	To        *Airport
	Stopovers []*Airport
}
