package reports

import (
	"time"

	"github.com/tailscan/tailscan/internal/standingdata"
)

// SearchCriteria is the subset of a report request that the flight store can
// evaluate directly. Count and fetch calls for the same request receive the
// same criteria value.
type SearchCriteria struct {
	DateFrom *time.Time
	DateTo   *time.Time

	ICAO24       string
	Registration string

	// Callsigns is empty for no callsign filter, a single entry for an
	// exact match, and multiple entries when alternate callsigns are
	// searched
	Callsigns []string

	IsEmergency  *bool
	Operator     string
	Country      string
	ICAOTypeCode string

	FirstAltitudeFrom *int
	FirstAltitudeTo   *int
	LastAltitudeFrom  *int
	LastAltitudeTo    *int
}

// NonDatabaseCriteria are the predicates the store cannot evaluate because
// they join against standing data: military status comes from the ICAO24
// code block, species and wake turbulence category from the type designator.
type NonDatabaseCriteria struct {
	IsMilitary             *bool
	Species                *standingdata.Species
	WakeTurbulenceCategory *standingdata.WakeTurbulenceCategory
}

// HasAny reports whether any non-database predicate is active
func (c *NonDatabaseCriteria) HasAny() bool {
	return c.IsMilitary != nil || c.Species != nil || c.WakeTurbulenceCategory != nil
}

// Matches evaluates every active predicate against a flight's resolved
// reference data. A flight survives only if all active predicates match; a
// flight with no aircraft record resolves everything to the zero value.
func (c *NonDatabaseCriteria) Matches(aircraft *Aircraft, refs *ReferenceResolver) bool {
	if c.IsMilitary != nil {
		military := false
		if aircraft != nil {
			if block := refs.CodeBlock(aircraft.ICAO24); block != nil {
				military = block.IsMilitary
			}
		}
		if military != *c.IsMilitary {
			return false
		}
	}

	if c.Species != nil || c.WakeTurbulenceCategory != nil {
		species := standingdata.SpeciesNone
		wtc := standingdata.WTCNone
		if aircraft != nil {
			if typ := refs.AircraftType(aircraft.ICAOTypeCode); typ != nil {
				species = typ.Species
				wtc = typ.WTC
			}
		}
		if c.Species != nil && species != *c.Species {
			return false
		}
		if c.WakeTurbulenceCategory != nil && wtc != *c.WakeTurbulenceCategory {
			return false
		}
	}

	return true
}

// BuiltCriteria is the output of BuildCriteria: what goes to the store, what
// stays in memory, and how the result is ordered
type BuiltCriteria struct {
	Criteria *SearchCriteria
	NonDB    *NonDatabaseCriteria

	Sort1 string
	Asc1  bool
	Sort2 string
	Asc2  bool

	// GroupBy is the primary sort column reported back to the caller
	GroupBy string
}

// BuildCriteria translates a report request into store-level search criteria
// plus the predicates that must be evaluated after fetch. The parser is used
// to expand the callsign filter when alternate callsigns are requested.
func BuildCriteria(req *ReportRequest, parser CallsignParser) *BuiltCriteria {
	criteria := &SearchCriteria{
		DateFrom:          req.DateFrom,
		DateTo:            req.DateTo,
		IsEmergency:       req.IsEmergency,
		FirstAltitudeFrom: req.FirstAltitudeFrom,
		FirstAltitudeTo:   req.FirstAltitudeTo,
		LastAltitudeFrom:  req.LastAltitudeFrom,
		LastAltitudeTo:    req.LastAltitudeTo,
	}
	if req.ICAO24 != nil {
		criteria.ICAO24 = *req.ICAO24
	}
	if req.Registration != nil {
		criteria.Registration = *req.Registration
	}
	if req.Operator != nil {
		criteria.Operator = *req.Operator
	}
	if req.Country != nil {
		criteria.Country = *req.Country
	}
	if req.ICAOTypeCode != nil {
		criteria.ICAOTypeCode = *req.ICAOTypeCode
	}
	if req.Callsign != nil && *req.Callsign != "" {
		if req.UseAlternateCallsigns && parser != nil {
			criteria.Callsigns = parser.AllRouteCallsigns(*req.Callsign, "")
		}
		if len(criteria.Callsigns) == 0 {
			criteria.Callsigns = []string{*req.Callsign}
		}
	}

	nonDB := &NonDatabaseCriteria{
		IsMilitary:             req.IsMilitary,
		Species:                req.Species,
		WakeTurbulenceCategory: req.WakeTurbulenceCategory,
	}

	groupBy := req.SortField1
	if groupBy == "" {
		groupBy = req.SortField2
	}

	return &BuiltCriteria{
		Criteria: criteria,
		NonDB:    nonDB,
		Sort1:    req.SortField1,
		Asc1:     req.SortAscending1,
		Sort2:    req.SortField2,
		Asc2:     req.SortAscending2,
		GroupBy:  groupBy,
	}
}
