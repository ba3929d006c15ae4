package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/tailscan/tailscan/internal/standingdata"
	"github.com/tailscan/tailscan/pkg/logger"
)

// Processor executes report requests against the flight store and assembles
// the final report structure. It holds no per-request state, so one
// processor serves any number of concurrent requests; each execution gets
// its own reference memoization.
type Processor struct {
	store        FlightStore
	standingData StandingDataProvider
	callsigns    CallsignParser
	pictures     PictureManager

	// internetClientsCanSeePictures gates picture lookups for requests
	// flagged as coming from internet clients; re-evaluated every request
	internetClientsCanSeePictures bool

	logger *logger.Logger
	now    func() time.Time
}

// NewProcessor creates a report processor
func NewProcessor(
	store FlightStore,
	standingData StandingDataProvider,
	callsigns CallsignParser,
	pictures PictureManager,
	internetClientsCanSeePictures bool,
	log *logger.Logger,
) *Processor {
	return &Processor{
		store:                         store,
		standingData:                  standingData,
		callsigns:                     callsigns,
		pictures:                      pictures,
		internetClientsCanSeePictures: internetClientsCanSeePictures,
		logger:                        log.Named("reports"),
		now:                           time.Now,
	}
}

// Run executes one report request. It never returns an error: store
// failures are captured into the report's ErrorText and the collections are
// left empty.
func (p *Processor) Run(req *ReportRequest) *FlightReport {
	start := p.now()

	report := &FlightReport{
		Flights:  []ReportFlight{},
		Routes:   []ReportRoute{},
		Airports: []ReportAirport{},
	}

	built := BuildCriteria(req, p.callsigns)
	report.GroupBy = built.GroupBy

	e := &execution{
		p:                p,
		req:              req,
		built:            built,
		refs:             NewReferenceResolver(p.standingData),
		routesByCallsign: make(map[string]*standingdata.Route),
		aircraftIndexes:  make(map[int64]int),
		routeIndexes:     make(map[*standingdata.Route]int),
		airportIndexes:   make(map[string]int),
		report:           report,
	}

	switch req.Kind {
	case KindByICAO, KindByRegistration:
		e.runAircraftReport()
	default:
		e.runDateReport()
	}

	report.SilhouettesAvailable = p.pictures.SilhouettesAvailable()
	report.OperatorFlagsAvailable = p.pictures.OperatorFlagsAvailable()
	report.ProcessingTime = fmt.Sprintf("%.3f", float64(p.now().Sub(start).Nanoseconds())/1e6)

	return report
}

// execution carries the per-request state: the reference memoization and the
// deduplication indexes for the output tables. Discarded when the report is
// done.
type execution struct {
	p     *Processor
	req   *ReportRequest
	built *BuiltCriteria
	refs  *ReferenceResolver

	// routesByCallsign caches resolved routes (including failed
	// resolutions) by the flight's own callsign for the report duration
	routesByCallsign map[string]*standingdata.Route

	aircraftIndexes map[int64]int
	routeIndexes    map[*standingdata.Route]int
	airportIndexes  map[string]int

	report *FlightReport
}

// fail is the single recovery point for store errors: log once, surface the
// error text, leave the collections empty. Callers return immediately after.
func (e *execution) fail(err error) {
	e.p.logger.Error("Report query failed",
		logger.String("report", e.req.Kind.String()),
		logger.Error(err))
	e.report.ErrorText = err.Error()
}

// runDateReport executes a many-aircraft report over all flights matching
// the criteria
func (e *execution) runDateReport() {
	flights, ok := e.countAndFetch(
		func(criteria *SearchCriteria) (int, error) {
			return e.p.store.GetCountOfFlights(criteria)
		},
		func(criteria *SearchCriteria, fromRow, toRow int) ([]*Flight, error) {
			return e.p.store.GetFlights(criteria, fromRow, toRow, e.built.Sort1, e.built.Asc1, e.built.Sort2, e.built.Asc2)
		},
	)
	if !ok {
		return
	}
	e.assembleFlights(flights, true)
}

// runAircraftReport executes a single-aircraft report (by ICAO24 or by
// registration). A missing identifier or an unknown aircraft short-circuits
// to an empty report with an unknown aircraft detail and no flight queries.
func (e *execution) runAircraftReport() {
	var ident string
	var lookup func(string) (*Aircraft, error)
	if e.req.Kind == KindByICAO {
		if e.req.ICAO24 != nil {
			ident = strings.TrimSpace(*e.req.ICAO24)
		}
		lookup = e.p.store.GetAircraftByCode
	} else {
		if e.req.Registration != nil {
			ident = strings.TrimSpace(*e.req.Registration)
		}
		lookup = e.p.store.GetAircraftByRegistration
	}

	if ident == "" {
		e.report.AircraftDetail = &ReportAircraft{IsUnknown: true}
		return
	}

	subject, err := lookup(ident)
	if err != nil {
		e.fail(err)
		return
	}
	if subject == nil {
		e.report.AircraftDetail = &ReportAircraft{IsUnknown: true}
		return
	}

	flights, ok := e.countAndFetch(
		func(criteria *SearchCriteria) (int, error) {
			return e.p.store.GetCountOfFlightsForAircraft(subject, criteria)
		},
		func(criteria *SearchCriteria, fromRow, toRow int) ([]*Flight, error) {
			return e.p.store.GetFlightsForAircraft(subject, criteria, fromRow, toRow, e.built.Sort1, e.built.Asc1, e.built.Sort2, e.built.Asc2)
		},
	)
	if !ok {
		return
	}

	detail := e.buildReportAircraft(subject)
	e.report.AircraftDetail = &detail
	e.assembleFlights(flights, false)
}

// countAndFetch runs the count-or-fetch stage. Without non-database
// predicates the store is asked for a count and the requested window, both
// with the same criteria. With non-database predicates every matching row is
// fetched (store ordering preserved), filtered in memory, counted, and the
// requested window is applied to the survivors. Returns ok=false when a
// store error was captured.
func (e *execution) countAndFetch(
	count func(*SearchCriteria) (int, error),
	fetch func(*SearchCriteria, int, int) ([]*Flight, error),
) ([]*Flight, bool) {
	if !e.built.NonDB.HasAny() {
		n, err := count(e.built.Criteria)
		if err != nil {
			e.fail(err)
			return nil, false
		}
		flights, err := fetch(e.built.Criteria, e.req.FromRow, e.req.ToRow)
		if err != nil {
			e.fail(err)
			return nil, false
		}
		e.report.CountRows = n
		return flights, true
	}

	// The store cannot know how many rows survive a reference-data
	// predicate, so pagination stays in memory and count is derived from
	// the filtered size.
	all, err := fetch(e.built.Criteria, -1, -1)
	if err != nil {
		e.fail(err)
		return nil, false
	}

	filtered := make([]*Flight, 0, len(all))
	for _, flight := range all {
		if e.built.NonDB.Matches(flight.Aircraft, e.refs) {
			filtered = append(filtered, flight)
		}
	}
	e.report.CountRows = len(filtered)

	return applyRowWindow(filtered, e.req.FromRow, e.req.ToRow), true
}

// applyRowWindow applies a 0-based inclusive row range to a slice; -1 bounds
// are unbounded
func applyRowWindow(flights []*Flight, fromRow, toRow int) []*Flight {
	if fromRow < 0 {
		fromRow = 0
	}
	if fromRow >= len(flights) {
		return nil
	}
	if toRow < 0 || toRow >= len(flights) {
		toRow = len(flights) - 1
	}
	if toRow < fromRow {
		return nil
	}
	return flights[fromRow : toRow+1]
}

// assembleFlights converts the fetched window into report rows, building the
// deduplicated aircraft, route and airport tables along the way. Row numbers
// are 1-based and continue the requested window offset.
func (e *execution) assembleFlights(flights []*Flight, withAircraftTable bool) {
	base := e.req.FromRow
	if base < 0 {
		base = 0
	}

	for i, flight := range flights {
		row := ReportFlight{
			RowNumber:        base + i + 1,
			AircraftIndex:    -1,
			RouteIndex:       e.routeIndex(flight),
			Callsign:         flight.Callsign,
			StartTime:        flight.StartTime,
			EndTime:          flight.EndTime,
			FirstAltitude:    flight.FirstAltitude,
			LastAltitude:     flight.LastAltitude,
			FirstLat:         flight.FirstLat,
			FirstLon:         flight.FirstLon,
			LastLat:          flight.LastLat,
			LastLon:          flight.LastLon,
			FirstTrack:       flight.FirstTrack,
			LastTrack:        flight.LastTrack,
			FirstSquawk:      flight.FirstSquawk,
			LastSquawk:       flight.LastSquawk,
			FirstOnGround:    flight.FirstOnGround,
			LastOnGround:     flight.LastOnGround,
			HadAlert:         flight.HadAlert,
			HadEmergency:     flight.HadEmergency,
			HadSPI:           flight.HadSPI,
			PositionMsgCount: flight.PositionMsgCount,
			ADSBMsgCount:     flight.ADSBMsgCount,
			ModeSMsgCount:    flight.ModeSMsgCount,
		}
		if withAircraftTable {
			row.AircraftIndex = e.aircraftIndex(flight)
		}
		e.report.Flights = append(e.report.Flights, row)
	}
}

// aircraftIndex returns the aircraft table index for a flight, adding the
// aircraft on first sight. Deduplication is by aircraft identity, not by
// registration. A flight without an aircraft record gets its own entry
// flagged unknown rather than being omitted.
func (e *execution) aircraftIndex(flight *Flight) int {
	if flight.Aircraft == nil {
		e.report.Aircraft = append(e.report.Aircraft, ReportAircraft{IsUnknown: true})
		return len(e.report.Aircraft) - 1
	}

	if idx, ok := e.aircraftIndexes[flight.Aircraft.ID]; ok {
		return idx
	}
	e.report.Aircraft = append(e.report.Aircraft, e.buildReportAircraft(flight.Aircraft))
	idx := len(e.report.Aircraft) - 1
	e.aircraftIndexes[flight.Aircraft.ID] = idx
	return idx
}

// buildReportAircraft resolves an aircraft's standing data and picture
// details into a report entry
func (e *execution) buildReportAircraft(aircraft *Aircraft) ReportAircraft {
	out := ReportAircraft{
		ICAO24:       aircraft.ICAO24,
		Registration: aircraft.Registration,
		ICAOTypeCode: aircraft.ICAOTypeCode,
		Model:        aircraft.Model,
		Manufacturer: aircraft.Manufacturer,
		Operator:     aircraft.Operator,
		OperatorCode: aircraft.OperatorCode,
		Country:      aircraft.Country,
		Species:      standingdata.SpeciesNone.String(),
		WTC:          standingdata.WTCNone.String(),
		EngineType:   standingdata.EngineTypeNone.String(),
	}

	if block := e.refs.CodeBlock(aircraft.ICAO24); block != nil {
		out.Military = block.IsMilitary
		out.ModeSCountry = block.Country
	}
	if typ := e.refs.AircraftType(aircraft.ICAOTypeCode); typ != nil {
		out.Engines = typ.Engines
		out.EngineType = typ.EngineType.String()
		out.Species = typ.Species.String()
		out.WTC = typ.WTC.String()
	}

	if e.picturesAllowed() && aircraft.Registration != "" {
		if pic := e.p.pictures.FindPicture(aircraft.Registration); pic != nil {
			out.HasPicture = true
			out.PictureWidth = pic.Width
			out.PictureHeight = pic.Height
		}
	}

	return out
}

// picturesAllowed reports whether this request may receive picture details
func (e *execution) picturesAllowed() bool {
	if e.req.IsInternetClient && !e.p.internetClientsCanSeePictures {
		return false
	}
	return true
}

// routeIndex returns the route table index for a flight's callsign, or -1
// when no route resolves. Candidate callsigns from the parser are tried in
// order and the first hit wins; the outcome (including a miss) is cached by
// the flight's callsign for the rest of the report.
func (e *execution) routeIndex(flight *Flight) int {
	cs := strings.ToUpper(strings.TrimSpace(flight.Callsign))
	if cs == "" {
		return -1
	}

	route, resolved := e.routesByCallsign[cs]
	if !resolved {
		operatorCode := ""
		if flight.Aircraft != nil {
			operatorCode = flight.Aircraft.OperatorCode
		}
		for _, candidate := range e.p.callsigns.AllRouteCallsigns(cs, operatorCode) {
			if r := e.refs.Route(candidate); r != nil {
				route = r
				break
			}
		}
		e.routesByCallsign[cs] = route
	}
	if route == nil {
		return -1
	}

	if idx, ok := e.routeIndexes[route]; ok {
		return idx
	}

	entry := ReportRoute{
		FromIndex:      e.airportIndex(route.From),
		ToIndex:        e.airportIndex(route.To),
		StopoversIndex: []int{},
	}
	for _, stopover := range route.Stopovers {
		entry.StopoversIndex = append(entry.StopoversIndex, e.airportIndex(stopover))
	}

	e.report.Routes = append(e.report.Routes, entry)
	idx := len(e.report.Routes) - 1
	e.routeIndexes[route] = idx
	return idx
}

// airportIndex returns the airport table index for an airport, adding it on
// first sight; nil airports are -1
func (e *execution) airportIndex(airport *standingdata.Airport) int {
	if airport == nil {
		return -1
	}

	key := airport.ICAO + "\x00" + airport.IATA + "\x00" + airport.Name + "\x00" + airport.Country
	if idx, ok := e.airportIndexes[key]; ok {
		return idx
	}

	e.report.Airports = append(e.report.Airports, ReportAirport{
		Code: airportCode(airport),
		Name: airportName(airport),
	})
	idx := len(e.report.Airports) - 1
	e.airportIndexes[key] = idx
	return idx
}

// airportCode prefers the ICAO code, falling back to IATA
func airportCode(airport *standingdata.Airport) string {
	if airport.ICAO != "" {
		return airport.ICAO
	}
	return airport.IATA
}

// airportName prefers "Name, Country", degrading to whichever is present
func airportName(airport *standingdata.Airport) string {
	switch {
	case airport.Name != "" && airport.Country != "":
		return airport.Name + ", " + airport.Country
	case airport.Name != "":
		return airport.Name
	default:
		return airport.Country
	}
}
