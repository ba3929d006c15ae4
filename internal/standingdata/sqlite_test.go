package standingdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailscan/tailscan/pkg/logger"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(filepath.Join(t.TempDir(), "standing.db"), 128, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func seedType(t *testing.T, p *Provider, icao string, species Species, wtc WakeTurbulenceCategory, engines string, engineType EngineType) {
	t.Helper()
	_, err := p.db.Exec(
		`INSERT INTO aircraft_types (icao, species, wtc, engines, engine_type) VALUES (?, ?, ?, ?, ?)`,
		icao, int(species), int(wtc), engines, int(engineType))
	require.NoError(t, err)
}

func seedCodeBlock(t *testing.T, p *Provider, prefix, country string, military bool) {
	t.Helper()
	m := 0
	if military {
		m = 1
	}
	_, err := p.db.Exec(
		`INSERT INTO code_blocks (prefix, country, is_military) VALUES (?, ?, ?)`,
		prefix, country, m)
	require.NoError(t, err)
}

func seedAirport(t *testing.T, p *Provider, icao, iata, name, country string) int64 {
	t.Helper()
	res, err := p.db.Exec(
		`INSERT INTO airports (icao, iata, name, country) VALUES (?, ?, ?, ?)`,
		icao, iata, name, country)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedRoute(t *testing.T, p *Provider, callsign string, fromID, toID int64, stopoverIDs ...int64) {
	t.Helper()
	res, err := p.db.Exec(
		`INSERT INTO routes (callsign, from_airport_id, to_airport_id) VALUES (?, ?, ?)`,
		callsign, fromID, toID)
	require.NoError(t, err)
	routeID, err := res.LastInsertId()
	require.NoError(t, err)
	for i, apID := range stopoverIDs {
		_, err := p.db.Exec(
			`INSERT INTO route_stopovers (route_id, sequence, airport_id) VALUES (?, ?, ?)`,
			routeID, i, apID)
		require.NoError(t, err)
	}
}

func TestFindAircraftType(t *testing.T) {
	p := newTestProvider(t)
	seedType(t, p, "B738", SpeciesLandplane, WTCMedium, "2", EngineTypeJet)

	typ := p.FindAircraftType("b738")
	require.NotNil(t, typ)
	assert.Equal(t, "B738", typ.ICAOTypeCode)
	assert.Equal(t, SpeciesLandplane, typ.Species)
	assert.Equal(t, WTCMedium, typ.WTC)
	assert.Equal(t, "2", typ.Engines)
	assert.Equal(t, EngineTypeJet, typ.EngineType)

	assert.Nil(t, p.FindAircraftType("XXXX"))
	assert.Nil(t, p.FindAircraftType(""))
}

func TestFindAircraftTypeCached(t *testing.T) {
	p := newTestProvider(t)
	seedType(t, p, "A320", SpeciesLandplane, WTCMedium, "2", EngineTypeJet)

	first := p.FindAircraftType("A320")
	require.NotNil(t, first)

	// A second lookup is served from the cache, surviving a row change
	_, err := p.db.Exec(`DELETE FROM aircraft_types WHERE icao = 'A320'`)
	require.NoError(t, err)
	second := p.FindAircraftType("A320")
	assert.Same(t, first, second)

	// Misses are cached too
	assert.Nil(t, p.FindAircraftType("ZZZZ"))
	seedType(t, p, "ZZZZ", SpeciesSeaplane, WTCLight, "1", EngineTypePiston)
	assert.Nil(t, p.FindAircraftType("ZZZZ"))
}

func TestFindCodeBlockLongestPrefixWins(t *testing.T) {
	p := newTestProvider(t)
	seedCodeBlock(t, p, "4", "Europe block", false)
	seedCodeBlock(t, p, "4CA", "Ireland", false)
	seedCodeBlock(t, p, "43C", "United Kingdom", true)

	block := p.FindCodeBlock("4CA1D2")
	require.NotNil(t, block)
	assert.Equal(t, "Ireland", block.Country)
	assert.False(t, block.IsMilitary)

	block = p.FindCodeBlock("43C001")
	require.NotNil(t, block)
	assert.Equal(t, "United Kingdom", block.Country)
	assert.True(t, block.IsMilitary)

	// Falls back to the shorter prefix when no longer one matches
	block = p.FindCodeBlock("400F01")
	require.NotNil(t, block)
	assert.Equal(t, "Europe block", block.Country)

	assert.Nil(t, p.FindCodeBlock("A00001"))
	assert.Nil(t, p.FindCodeBlock(""))
}

func TestFindRoute(t *testing.T) {
	p := newTestProvider(t)
	dub := seedAirport(t, p, "EIDW", "DUB", "Dublin", "Ireland")
	lhr := seedAirport(t, p, "EGLL", "LHR", "Heathrow", "United Kingdom")
	cdg := seedAirport(t, p, "LFPG", "CDG", "Charles de Gaulle", "France")
	seedRoute(t, p, "RYR123", dub, lhr)
	seedRoute(t, p, "BAW456", lhr, dub, cdg)

	route := p.FindRoute("ryr123")
	require.NotNil(t, route)
	assert.Equal(t, "RYR123", route.Callsign)
	require.NotNil(t, route.From)
	assert.Equal(t, "EIDW", route.From.ICAO)
	require.NotNil(t, route.To)
	assert.Equal(t, "EGLL", route.To.ICAO)
	assert.Empty(t, route.Stopovers)

	route = p.FindRoute("BAW456")
	require.NotNil(t, route)
	require.Len(t, route.Stopovers, 1)
	assert.Equal(t, "LFPG", route.Stopovers[0].ICAO)

	assert.Nil(t, p.FindRoute("NOWHERE"))
	assert.Nil(t, p.FindRoute(""))

	// Cached after the first resolution
	again := p.FindRoute("RYR123")
	assert.Same(t, p.FindRoute("RYR123"), again)
}
