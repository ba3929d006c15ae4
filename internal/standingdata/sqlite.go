package standingdata

import (
	"database/sql"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"github.com/tailscan/tailscan/pkg/logger"
)

// Provider is a SQLite-backed standing data source. Lookups that find
// nothing return nil; that is a normal outcome, never an error. Query
// failures are logged and reported as not-found so a broken reference
// database degrades report content instead of failing reports.
//
// A process-wide LRU caches lookups across reports. This is independent of
// the per-report memoization done by the report engine.
type Provider struct {
	db     *sql.DB
	logger *logger.Logger

	typeCache  *lru.Cache[string, *AircraftType]
	blockCache *lru.Cache[string, *CodeBlock]
	routeCache *lru.Cache[string, *Route]
}

// NewProvider opens the standing data database at the given path
func NewProvider(dbPath string, cacheEntries int, log *logger.Logger) (*Provider, error) {
	sdLogger := log.Named("standingdata")

	sdLogger.Info("Opening standing data database",
		logger.String("path", dbPath),
		logger.Int("cache_entries", cacheEntries))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open standing data database: %w", err)
	}

	// Read-only workload, but WAL keeps us compatible with external updaters
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	typeCache, err := lru.New[string, *AircraftType](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create type cache: %w", err)
	}
	blockCache, err := lru.New[string, *CodeBlock](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create code block cache: %w", err)
	}
	routeCache, err := lru.New[string, *Route](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create route cache: %w", err)
	}

	return &Provider{
		db:         db,
		logger:     sdLogger,
		typeCache:  typeCache,
		blockCache: blockCache,
		routeCache: routeCache,
	}, nil
}

// Close closes the database connection
func (p *Provider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// initSchema creates the standing data tables if they don't exist
func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS aircraft_types (
			icao TEXT PRIMARY KEY,
			species INTEGER NOT NULL DEFAULT 0,
			wtc INTEGER NOT NULL DEFAULT 0,
			engines TEXT NOT NULL DEFAULT '',
			engine_type INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS code_blocks (
			prefix TEXT PRIMARY KEY,
			country TEXT NOT NULL DEFAULT '',
			is_military INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS airports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			icao TEXT,
			iata TEXT,
			name TEXT,
			country TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			callsign TEXT NOT NULL UNIQUE,
			from_airport_id INTEGER REFERENCES airports(id),
			to_airport_id INTEGER REFERENCES airports(id)
		)`,
		`CREATE TABLE IF NOT EXISTS route_stopovers (
			route_id INTEGER NOT NULL REFERENCES routes(id),
			sequence INTEGER NOT NULL,
			airport_id INTEGER NOT NULL REFERENCES airports(id),
			PRIMARY KEY (route_id, sequence)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_callsign ON routes(callsign)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create standing data schema: %w", err)
		}
	}
	return nil
}

// FindAircraftType looks up an ICAO 8643 type designator (e.g. "B738")
func (p *Provider) FindAircraftType(icaoTypeCode string) *AircraftType {
	key := strings.ToUpper(strings.TrimSpace(icaoTypeCode))
	if key == "" {
		return nil
	}
	if cached, ok := p.typeCache.Get(key); ok {
		return cached
	}

	var t AircraftType
	var species, wtc, engineType int
	err := p.db.QueryRow(
		`SELECT icao, species, wtc, engines, engine_type FROM aircraft_types WHERE icao = ?`, key,
	).Scan(&t.ICAOTypeCode, &species, &wtc, &t.Engines, &engineType)
	if err == sql.ErrNoRows {
		p.typeCache.Add(key, nil)
		return nil
	}
	if err != nil {
		p.logger.Error("Aircraft type lookup failed", logger.String("icao", key), logger.Error(err))
		return nil
	}
	t.Species = Species(species)
	t.WTC = WakeTurbulenceCategory(wtc)
	t.EngineType = EngineType(engineType)

	p.typeCache.Add(key, &t)
	return &t
}

// FindCodeBlock looks up the code block covering an ICAO24 address. The
// longest stored hex prefix of the address wins.
func (p *Provider) FindCodeBlock(icao24 string) *CodeBlock {
	key := strings.ToUpper(strings.TrimSpace(icao24))
	if key == "" {
		return nil
	}
	if cached, ok := p.blockCache.Get(key); ok {
		return cached
	}

	var b CodeBlock
	var military int
	err := p.db.QueryRow(
		`SELECT country, is_military FROM code_blocks
		 WHERE ? LIKE prefix || '%'
		 ORDER BY LENGTH(prefix) DESC LIMIT 1`, key,
	).Scan(&b.Country, &military)
	if err == sql.ErrNoRows {
		p.blockCache.Add(key, nil)
		return nil
	}
	if err != nil {
		p.logger.Error("Code block lookup failed", logger.String("icao24", key), logger.Error(err))
		return nil
	}
	b.IsMilitary = military != 0

	p.blockCache.Add(key, &b)
	return &b
}

// FindRoute looks up the route flown under a callsign
func (p *Provider) FindRoute(callsign string) *Route {
	key := strings.ToUpper(strings.TrimSpace(callsign))
	if key == "" {
		return nil
	}
	if cached, ok := p.routeCache.Get(key); ok {
		return cached
	}

	var routeID int64
	var fromID, toID sql.NullInt64
	err := p.db.QueryRow(
		`SELECT id, from_airport_id, to_airport_id FROM routes WHERE callsign = ?`, key,
	).Scan(&routeID, &fromID, &toID)
	if err == sql.ErrNoRows {
		p.routeCache.Add(key, nil)
		return nil
	}
	if err != nil {
		p.logger.Error("Route lookup failed", logger.String("callsign", key), logger.Error(err))
		return nil
	}

	route := &Route{Callsign: key}
	if fromID.Valid {
		route.From = p.loadAirport(fromID.Int64)
	}
	if toID.Valid {
		route.To = p.loadAirport(toID.Int64)
	}

	rows, err := p.db.Query(
		`SELECT airport_id FROM route_stopovers WHERE route_id = ? ORDER BY sequence`, routeID)
	if err != nil {
		p.logger.Error("Route stopover lookup failed", logger.String("callsign", key), logger.Error(err))
		return nil
	}
	defer rows.Close()
	for rows.Next() {
		var airportID int64
		if err := rows.Scan(&airportID); err != nil {
			p.logger.Error("Failed to scan stopover row", logger.Error(err))
			return nil
		}
		if ap := p.loadAirport(airportID); ap != nil {
			route.Stopovers = append(route.Stopovers, ap)
		}
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("Error iterating stopover rows", logger.Error(err))
		return nil
	}

	p.routeCache.Add(key, route)
	return route
}

func (p *Provider) loadAirport(id int64) *Airport {
	var a Airport
	var icao, iata, name, country sql.NullString
	err := p.db.QueryRow(
		`SELECT icao, iata, name, country FROM airports WHERE id = ?`, id,
	).Scan(&icao, &iata, &name, &country)
	if err != nil {
		if err != sql.ErrNoRows {
			p.logger.Error("Airport lookup failed", logger.Int64("id", id), logger.Error(err))
		}
		return nil
	}
	a.ICAO = icao.String
	a.IATA = iata.String
	a.Name = name.String
	a.Country = country.String
	return &a
}
