// Package reports turns report requests into database criteria, executes
// them against the flight store and assembles serialization-ready report
// structures with deduplicated aircraft, route and airport tables.
package reports

import (
	"time"
)

// Aircraft is one aircraft record from the flight database
type Aircraft struct {
	ID           int64
	ICAO24       string
	Registration string
	ICAOTypeCode string
	Model        string
	Manufacturer string
	Operator     string
	OperatorCode string
	Country      string
}

// Flight is one flight record from the flight database. Aircraft is the
// joined aircraft record and may be nil when the database has no matching
// aircraft row; such flights are still reported.
type Flight struct {
	ID         int64
	AircraftID int64
	Aircraft   *Aircraft

	Callsign  string
	StartTime time.Time
	EndTime   time.Time

	FirstAltitude int
	LastAltitude  int
	FirstLat      float64
	FirstLon      float64
	LastLat       float64
	LastLon       float64
	FirstTrack    float64
	LastTrack     float64
	FirstSquawk   int
	LastSquawk    int
	FirstOnGround bool
	LastOnGround  bool

	HadAlert     bool
	HadEmergency bool
	HadSPI       bool

	PositionMsgCount int
	ADSBMsgCount     int
	ModeSMsgCount    int
}

// Picture is the dimensions of an aircraft picture found by the picture
// manager
type Picture struct {
	Width  int
	Height int
}
