package reports

import (
	"github.com/tailscan/tailscan/internal/standingdata"
)

// fetchCall records one store fetch invocation
type fetchCall struct {
	criteria *SearchCriteria
	fromRow  int
	toRow    int
	sort1    string
	asc1     bool
	sort2    string
	asc2     bool
}

type mockStore struct {
	flights []*Flight
	count   int

	countErr error
	fetchErr error

	aircraftByCode map[string]*Aircraft
	aircraftByReg  map[string]*Aircraft
	aircraftErr    error

	countCalls            []*SearchCriteria
	fetchCalls            []fetchCall
	countForAircraftCalls []*SearchCriteria
	fetchForAircraftCalls []fetchCall
	aircraftLookups       []string
}

func (m *mockStore) GetCountOfFlights(criteria *SearchCriteria) (int, error) {
	m.countCalls = append(m.countCalls, criteria)
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockStore) GetFlights(criteria *SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*Flight, error) {
	m.fetchCalls = append(m.fetchCalls, fetchCall{criteria, fromRow, toRow, sort1, asc1, sort2, asc2})
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.flights, nil
}

func (m *mockStore) GetCountOfFlightsForAircraft(aircraft *Aircraft, criteria *SearchCriteria) (int, error) {
	m.countForAircraftCalls = append(m.countForAircraftCalls, criteria)
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockStore) GetFlightsForAircraft(aircraft *Aircraft, criteria *SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*Flight, error) {
	m.fetchForAircraftCalls = append(m.fetchForAircraftCalls, fetchCall{criteria, fromRow, toRow, sort1, asc1, sort2, asc2})
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.flights, nil
}

func (m *mockStore) GetAircraftByCode(icao24 string) (*Aircraft, error) {
	m.aircraftLookups = append(m.aircraftLookups, icao24)
	if m.aircraftErr != nil {
		return nil, m.aircraftErr
	}
	return m.aircraftByCode[icao24], nil
}

func (m *mockStore) GetAircraftByRegistration(registration string) (*Aircraft, error) {
	m.aircraftLookups = append(m.aircraftLookups, registration)
	if m.aircraftErr != nil {
		return nil, m.aircraftErr
	}
	return m.aircraftByReg[registration], nil
}

type mockStandingData struct {
	types  map[string]*standingdata.AircraftType
	blocks map[string]*standingdata.CodeBlock
	routes map[string]*standingdata.Route

	typeCalls  []string
	blockCalls []string
	routeCalls []string
}

func newMockStandingData() *mockStandingData {
	return &mockStandingData{
		types:  map[string]*standingdata.AircraftType{},
		blocks: map[string]*standingdata.CodeBlock{},
		routes: map[string]*standingdata.Route{},
	}
}

func (m *mockStandingData) FindAircraftType(icaoTypeCode string) *standingdata.AircraftType {
	m.typeCalls = append(m.typeCalls, icaoTypeCode)
	return m.types[icaoTypeCode]
}

func (m *mockStandingData) FindCodeBlock(icao24 string) *standingdata.CodeBlock {
	m.blockCalls = append(m.blockCalls, icao24)
	return m.blocks[icao24]
}

func (m *mockStandingData) FindRoute(callsign string) *standingdata.Route {
	m.routeCalls = append(m.routeCalls, callsign)
	return m.routes[callsign]
}

// mockParser returns preset candidates per callsign, defaulting to the
// callsign itself
type mockParser struct {
	candidates map[string][]string
}

func (m *mockParser) AllRouteCallsigns(callsign, operatorCode string) []string {
	if m.candidates != nil {
		if c, ok := m.candidates[callsign]; ok {
			return c
		}
	}
	if callsign == "" {
		return nil
	}
	return []string{callsign}
}

type mockPictures struct {
	pictures    map[string]*Picture
	silhouettes bool
	flags       bool

	findCalls []string
}

func (m *mockPictures) FindPicture(registration string) *Picture {
	m.findCalls = append(m.findCalls, registration)
	return m.pictures[registration]
}

func (m *mockPictures) SilhouettesAvailable() bool   { return m.silhouettes }
func (m *mockPictures) OperatorFlagsAvailable() bool { return m.flags }
