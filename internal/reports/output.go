package reports

import (
	"time"
)

// FlightReport is the assembled report, ready for serialization by the
// presentation layer. Flights reference the deduplicated aircraft, route and
// airport tables by index; -1 means no reference.
type FlightReport struct {
	CountRows int    `json:"countRows"`
	ErrorText string `json:"errorText,omitempty"`
	GroupBy   string `json:"groupBy"`

	Flights []ReportFlight `json:"flights"`

	// Aircraft is populated for date reports; AircraftDetail for
	// single-aircraft report kinds
	Aircraft       []ReportAircraft `json:"aircraft,omitempty"`
	AircraftDetail *ReportAircraft  `json:"aircraftDetail,omitempty"`

	Routes   []ReportRoute   `json:"routes"`
	Airports []ReportAirport `json:"airports"`

	// ProcessingTime is elapsed wall-clock milliseconds in fixed
	// 3-decimal textual form, e.g. "12.419"
	ProcessingTime string `json:"processingTime"`

	SilhouettesAvailable   bool `json:"silhouettesAvailable"`
	OperatorFlagsAvailable bool `json:"operatorFlagsAvailable"`
}

// ReportFlight is one flight row. RowNumber is 1-based and continues the
// requested window offset.
type ReportFlight struct {
	RowNumber     int       `json:"rowNumber"`
	AircraftIndex int       `json:"aircraftIndex"`
	RouteIndex    int       `json:"routeIndex"`
	Callsign      string    `json:"callsign"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`

	FirstAltitude int     `json:"firstAltitude"`
	LastAltitude  int     `json:"lastAltitude"`
	FirstLat      float64 `json:"firstLat"`
	FirstLon      float64 `json:"firstLon"`
	LastLat       float64 `json:"lastLat"`
	LastLon       float64 `json:"lastLon"`
	FirstTrack    float64 `json:"firstTrack"`
	LastTrack     float64 `json:"lastTrack"`
	FirstSquawk   int     `json:"firstSquawk"`
	LastSquawk    int     `json:"lastSquawk"`
	FirstOnGround bool    `json:"firstOnGround"`
	LastOnGround  bool    `json:"lastOnGround"`

	HadAlert     bool `json:"hadAlert"`
	HadEmergency bool `json:"hadEmergency"`
	HadSPI       bool `json:"hadSpi"`

	PositionMsgCount int `json:"countPositionMsgs"`
	ADSBMsgCount     int `json:"countAdsbMsgs"`
	ModeSMsgCount    int `json:"countModeSMsgs"`
}

// ReportAircraft is one entry in the deduplicated aircraft table, with its
// standing data fields resolved
type ReportAircraft struct {
	IsUnknown    bool   `json:"isUnknown"`
	ICAO24       string `json:"icao"`
	Registration string `json:"reg"`
	ICAOTypeCode string `json:"type"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	Operator     string `json:"operator"`
	OperatorCode string `json:"operatorCode"`

	// ICAO 8643 classification from standing data
	Engines    string `json:"engines"`
	EngineType string `json:"engineType"`
	Species    string `json:"species"`
	WTC        string `json:"wtc"`

	Military     bool   `json:"military"`
	ModeSCountry string `json:"modeSCountry"`
	Country      string `json:"country"`

	HasPicture    bool `json:"hasPicture"`
	PictureWidth  int  `json:"pictureWidth,omitempty"`
	PictureHeight int  `json:"pictureHeight,omitempty"`
}

// ReportRoute is one entry in the deduplicated route table. Indexes refer to
// the airports table; -1 means the airport is unknown.
type ReportRoute struct {
	FromIndex      int   `json:"fromIndex"`
	ToIndex        int   `json:"toIndex"`
	StopoversIndex []int `json:"stopoversIndex"`
}

// ReportAirport is one entry in the deduplicated airport table. Code prefers
// the ICAO code and falls back to IATA; Name is "Name, Country" when both
// are known.
type ReportAirport struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
