// Package sqlite implements flight and aircraft persistence on SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tailscan/tailscan/internal/reports"
	"github.com/tailscan/tailscan/pkg/logger"
)

// FlightStore is a SQLite-backed flight database. It implements
// reports.FlightStore for report execution and provides the write side used
// by the ingestion path.
type FlightStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewFlightStore opens (and if necessary initializes) the flight database
func NewFlightStore(dbPath string, busyTimeoutMs, cacheSizePages int, log *logger.Logger) (*FlightStore, error) {
	storeLogger := log.Named("sqlite")

	storeLogger.Info("Initializing SQLite flight store",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMs)); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA cache_size=%d", cacheSizePages)); err != nil {
		return nil, fmt.Errorf("failed to set cache size: %w", err)
	}

	if err := initDatabase(db, storeLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &FlightStore{db: db, logger: storeLogger}, nil
}

// Close closes the database connection
func (s *FlightStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetDB returns the database connection
func (s *FlightStore) GetDB() *sql.DB {
	return s.db
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS aircraft (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			icao24 TEXT NOT NULL UNIQUE,
			registration TEXT,
			icao_type_code TEXT,
			model TEXT,
			manufacturer TEXT,
			operator TEXT,
			operator_code TEXT,
			country TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create aircraft table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS flights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			aircraft_id INTEGER REFERENCES aircraft(id),
			callsign TEXT,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP,
			first_altitude INTEGER DEFAULT 0,
			last_altitude INTEGER DEFAULT 0,
			first_lat REAL DEFAULT 0,
			first_lon REAL DEFAULT 0,
			last_lat REAL DEFAULT 0,
			last_lon REAL DEFAULT 0,
			first_track REAL DEFAULT 0,
			last_track REAL DEFAULT 0,
			first_squawk INTEGER DEFAULT 0,
			last_squawk INTEGER DEFAULT 0,
			first_on_ground INTEGER DEFAULT 0,
			last_on_ground INTEGER DEFAULT 0,
			had_alert INTEGER DEFAULT 0,
			had_emergency INTEGER DEFAULT 0,
			had_spi INTEGER DEFAULT 0,
			position_msg_count INTEGER DEFAULT 0,
			adsb_msg_count INTEGER DEFAULT 0,
			mode_s_msg_count INTEGER DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flights table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_flights_aircraft_id ON flights(aircraft_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flights_start_time ON flights(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_flights_callsign ON flights(callsign)`,
		`CREATE INDEX IF NOT EXISTS idx_aircraft_registration ON aircraft(registration)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Info("Database schema initialized successfully")
	return nil
}

// sortColumns whitelists the sortable report fields against real columns
var sortColumns = map[string]string{
	reports.SortByDate:          "f.start_time",
	reports.SortByCallsign:      "f.callsign",
	reports.SortByICAO:          "a.icao24",
	reports.SortByRegistration:  "a.registration",
	reports.SortByType:          "a.icao_type_code",
	reports.SortByModel:         "a.model",
	reports.SortByOperator:      "a.operator",
	reports.SortByCountry:       "a.country",
	reports.SortByFirstAltitude: "f.first_altitude",
	reports.SortByLastAltitude:  "f.last_altitude",
}

const flightColumns = `
	f.id, f.aircraft_id, f.callsign, f.start_time, f.end_time,
	f.first_altitude, f.last_altitude,
	f.first_lat, f.first_lon, f.last_lat, f.last_lon,
	f.first_track, f.last_track, f.first_squawk, f.last_squawk,
	f.first_on_ground, f.last_on_ground,
	f.had_alert, f.had_emergency, f.had_spi,
	f.position_msg_count, f.adsb_msg_count, f.mode_s_msg_count,
	a.id, a.icao24, a.registration, a.icao_type_code, a.model,
	a.manufacturer, a.operator, a.operator_code, a.country`

// buildWhere translates search criteria into a WHERE clause. aircraftID
// additionally pins the flights to one aircraft for single-aircraft reports.
func buildWhere(criteria *reports.SearchCriteria, aircraftID *int64) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if aircraftID != nil {
		clauses = append(clauses, "f.aircraft_id = ?")
		args = append(args, *aircraftID)
	}
	if criteria.DateFrom != nil {
		clauses = append(clauses, "f.start_time >= ?")
		args = append(args, criteria.DateFrom.UTC().Format(time.RFC3339))
	}
	if criteria.DateTo != nil {
		clauses = append(clauses, "f.start_time <= ?")
		args = append(args, criteria.DateTo.UTC().Format(time.RFC3339))
	}
	if criteria.ICAO24 != "" {
		clauses = append(clauses, "a.icao24 = ?")
		args = append(args, strings.ToUpper(criteria.ICAO24))
	}
	if criteria.Registration != "" {
		clauses = append(clauses, "a.registration = ?")
		args = append(args, strings.ToUpper(criteria.Registration))
	}
	if len(criteria.Callsigns) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(criteria.Callsigns)), ",")
		clauses = append(clauses, fmt.Sprintf("f.callsign IN (%s)", placeholders))
		for _, cs := range criteria.Callsigns {
			args = append(args, strings.ToUpper(cs))
		}
	}
	if criteria.IsEmergency != nil {
		clauses = append(clauses, "f.had_emergency = ?")
		args = append(args, boolToInt(*criteria.IsEmergency))
	}
	if criteria.Operator != "" {
		clauses = append(clauses, "a.operator = ?")
		args = append(args, criteria.Operator)
	}
	if criteria.Country != "" {
		clauses = append(clauses, "a.country = ?")
		args = append(args, criteria.Country)
	}
	if criteria.ICAOTypeCode != "" {
		clauses = append(clauses, "a.icao_type_code = ?")
		args = append(args, strings.ToUpper(criteria.ICAOTypeCode))
	}
	if criteria.FirstAltitudeFrom != nil {
		clauses = append(clauses, "f.first_altitude >= ?")
		args = append(args, *criteria.FirstAltitudeFrom)
	}
	if criteria.FirstAltitudeTo != nil {
		clauses = append(clauses, "f.first_altitude <= ?")
		args = append(args, *criteria.FirstAltitudeTo)
	}
	if criteria.LastAltitudeFrom != nil {
		clauses = append(clauses, "f.last_altitude >= ?")
		args = append(args, *criteria.LastAltitudeFrom)
	}
	if criteria.LastAltitudeTo != nil {
		clauses = append(clauses, "f.last_altitude <= ?")
		args = append(args, *criteria.LastAltitudeTo)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrderBy translates the sort spec into an ORDER BY clause. Unknown
// sort fields are skipped; with no usable field the store's natural order is
// kept.
func buildOrderBy(sort1 string, asc1 bool, sort2 string, asc2 bool) string {
	var terms []string
	for _, s := range []struct {
		field string
		asc   bool
	}{{sort1, asc1}, {sort2, asc2}} {
		col, ok := sortColumns[s.field]
		if !ok {
			continue
		}
		dir := "DESC"
		if s.asc {
			dir = "ASC"
		}
		terms = append(terms, col+" "+dir)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// buildLimit translates a 0-based inclusive row range into LIMIT/OFFSET;
// -1 bounds are unbounded
func buildLimit(fromRow, toRow int) string {
	if fromRow < 0 && toRow < 0 {
		return ""
	}
	offset := fromRow
	if offset < 0 {
		offset = 0
	}
	if toRow < 0 {
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	}
	limit := toRow - offset + 1
	if limit < 0 {
		limit = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

// GetCountOfFlights returns the number of flights matching the criteria
func (s *FlightStore) GetCountOfFlights(criteria *reports.SearchCriteria) (int, error) {
	where, args := buildWhere(criteria, nil)
	query := "SELECT COUNT(*) FROM flights f LEFT JOIN aircraft a ON a.id = f.aircraft_id" + where

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flights: %w", err)
	}
	return count, nil
}

// GetFlights returns the flights matching the criteria within the requested
// row range, in the requested order
func (s *FlightStore) GetFlights(criteria *reports.SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*reports.Flight, error) {
	where, args := buildWhere(criteria, nil)
	query := "SELECT " + flightColumns + " FROM flights f LEFT JOIN aircraft a ON a.id = f.aircraft_id" +
		where + buildOrderBy(sort1, asc1, sort2, asc2) + buildLimit(fromRow, toRow)

	return s.queryFlights(query, args)
}

// GetCountOfFlightsForAircraft returns the number of one aircraft's flights
// matching the criteria
func (s *FlightStore) GetCountOfFlightsForAircraft(aircraft *reports.Aircraft, criteria *reports.SearchCriteria) (int, error) {
	if aircraft == nil {
		return 0, nil
	}
	where, args := buildWhere(criteria, &aircraft.ID)
	query := "SELECT COUNT(*) FROM flights f LEFT JOIN aircraft a ON a.id = f.aircraft_id" + where

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flights for aircraft: %w", err)
	}
	return count, nil
}

// GetFlightsForAircraft returns one aircraft's flights matching the criteria
// within the requested row range, in the requested order
func (s *FlightStore) GetFlightsForAircraft(aircraft *reports.Aircraft, criteria *reports.SearchCriteria, fromRow, toRow int, sort1 string, asc1 bool, sort2 string, asc2 bool) ([]*reports.Flight, error) {
	if aircraft == nil {
		return nil, nil
	}
	where, args := buildWhere(criteria, &aircraft.ID)
	query := "SELECT " + flightColumns + " FROM flights f LEFT JOIN aircraft a ON a.id = f.aircraft_id" +
		where + buildOrderBy(sort1, asc1, sort2, asc2) + buildLimit(fromRow, toRow)

	return s.queryFlights(query, args)
}

func (s *FlightStore) queryFlights(query string, args []interface{}) ([]*reports.Flight, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	flights := []*reports.Flight{}
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, flight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flight rows: %w", err)
	}
	return flights, nil
}

func scanFlight(rows *sql.Rows) (*reports.Flight, error) {
	var f reports.Flight
	var aircraftID sql.NullInt64
	var callsign, startTime sql.NullString
	var endTime sql.NullString
	var firstOnGround, lastOnGround, hadAlert, hadEmergency, hadSPI int

	var acID sql.NullInt64
	var acICAO, acReg, acType, acModel, acManufacturer, acOperator, acOperatorCode, acCountry sql.NullString

	err := rows.Scan(
		&f.ID, &aircraftID, &callsign, &startTime, &endTime,
		&f.FirstAltitude, &f.LastAltitude,
		&f.FirstLat, &f.FirstLon, &f.LastLat, &f.LastLon,
		&f.FirstTrack, &f.LastTrack, &f.FirstSquawk, &f.LastSquawk,
		&firstOnGround, &lastOnGround,
		&hadAlert, &hadEmergency, &hadSPI,
		&f.PositionMsgCount, &f.ADSBMsgCount, &f.ModeSMsgCount,
		&acID, &acICAO, &acReg, &acType, &acModel,
		&acManufacturer, &acOperator, &acOperatorCode, &acCountry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan flight row: %w", err)
	}

	f.AircraftID = aircraftID.Int64
	f.Callsign = callsign.String
	f.FirstOnGround = firstOnGround != 0
	f.LastOnGround = lastOnGround != 0
	f.HadAlert = hadAlert != 0
	f.HadEmergency = hadEmergency != 0
	f.HadSPI = hadSPI != 0

	if startTime.Valid {
		t, err := time.Parse(time.RFC3339, startTime.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		f.StartTime = t
	}
	if endTime.Valid && endTime.String != "" {
		t, err := time.Parse(time.RFC3339, endTime.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		f.EndTime = t
	}

	if acID.Valid {
		f.Aircraft = &reports.Aircraft{
			ID:           acID.Int64,
			ICAO24:       acICAO.String,
			Registration: acReg.String,
			ICAOTypeCode: acType.String,
			Model:        acModel.String,
			Manufacturer: acManufacturer.String,
			Operator:     acOperator.String,
			OperatorCode: acOperatorCode.String,
			Country:      acCountry.String,
		}
	}

	return &f, nil
}

// GetAircraftByCode returns the aircraft with the given ICAO24 address, or
// nil when none exists
func (s *FlightStore) GetAircraftByCode(icao24 string) (*reports.Aircraft, error) {
	return s.getAircraft("icao24", strings.ToUpper(strings.TrimSpace(icao24)))
}

// GetAircraftByRegistration returns the aircraft with the given
// registration, or nil when none exists
func (s *FlightStore) GetAircraftByRegistration(registration string) (*reports.Aircraft, error) {
	return s.getAircraft("registration", strings.ToUpper(strings.TrimSpace(registration)))
}

func (s *FlightStore) getAircraft(column, value string) (*reports.Aircraft, error) {
	if value == "" {
		return nil, nil
	}

	var a reports.Aircraft
	var reg, typ, model, manufacturer, operator, operatorCode, country sql.NullString
	err := s.db.QueryRow(
		`SELECT id, icao24, registration, icao_type_code, model, manufacturer,
		 operator, operator_code, country FROM aircraft WHERE `+column+` = ?`, value,
	).Scan(&a.ID, &a.ICAO24, &reg, &typ, &model, &manufacturer, &operator, &operatorCode, &country)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft by %s: %w", column, err)
	}

	a.Registration = reg.String
	a.ICAOTypeCode = typ.String
	a.Model = model.String
	a.Manufacturer = manufacturer.String
	a.Operator = operator.String
	a.OperatorCode = operatorCode.String
	a.Country = country.String
	return &a, nil
}

// UpsertAircraft inserts or updates an aircraft record keyed by ICAO24 and
// returns its id
func (s *FlightStore) UpsertAircraft(a *reports.Aircraft) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO aircraft (icao24, registration, icao_type_code, model, manufacturer, operator, operator_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(icao24) DO UPDATE SET
			registration = excluded.registration,
			icao_type_code = excluded.icao_type_code,
			model = excluded.model,
			manufacturer = excluded.manufacturer,
			operator = excluded.operator,
			operator_code = excluded.operator_code,
			country = excluded.country,
			updated_at = CURRENT_TIMESTAMP
	`, strings.ToUpper(a.ICAO24), strings.ToUpper(a.Registration), strings.ToUpper(a.ICAOTypeCode),
		a.Model, a.Manufacturer, a.Operator, strings.ToUpper(a.OperatorCode), a.Country)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert aircraft: %w", err)
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM aircraft WHERE icao24 = ?`, strings.ToUpper(a.ICAO24)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back aircraft id: %w", err)
	}
	a.ID = id
	return id, nil
}

// InsertFlight inserts a completed flight record and returns its id
func (s *FlightStore) InsertFlight(f *reports.Flight) (int64, error) {
	var endTime interface{}
	if !f.EndTime.IsZero() {
		endTime = f.EndTime.UTC().Format(time.RFC3339)
	}

	res, err := s.db.Exec(`
		INSERT INTO flights (
			aircraft_id, callsign, start_time, end_time,
			first_altitude, last_altitude,
			first_lat, first_lon, last_lat, last_lon,
			first_track, last_track, first_squawk, last_squawk,
			first_on_ground, last_on_ground,
			had_alert, had_emergency, had_spi,
			position_msg_count, adsb_msg_count, mode_s_msg_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullableID(f.AircraftID), strings.ToUpper(f.Callsign), f.StartTime.UTC().Format(time.RFC3339), endTime,
		f.FirstAltitude, f.LastAltitude,
		f.FirstLat, f.FirstLon, f.LastLat, f.LastLon,
		f.FirstTrack, f.LastTrack, f.FirstSquawk, f.LastSquawk,
		boolToInt(f.FirstOnGround), boolToInt(f.LastOnGround),
		boolToInt(f.HadAlert), boolToInt(f.HadEmergency), boolToInt(f.HadSPI),
		f.PositionMsgCount, f.ADSBMsgCount, f.ModeSMsgCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert flight: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get flight id: %w", err)
	}
	f.ID = id
	return id, nil
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
