package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailscan/tailscan/internal/standingdata"
)

func strPtr(s string) *string                            { return &s }
func boolPtr(b bool) *bool                               { return &b }
func intPtr(i int) *int                                  { return &i }
func speciesPtr(s standingdata.Species) *standingdata.Species { return &s }
func wtcPtr(w standingdata.WakeTurbulenceCategory) *standingdata.WakeTurbulenceCategory {
	return &w
}

func TestBuildCriteriaMapsDatabaseFields(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	req := &ReportRequest{
		Kind:              KindByDate,
		DateFrom:          &from,
		DateTo:            &to,
		ICAO24:            strPtr("4CA1D2"),
		Registration:      strPtr("EI-DWT"),
		Callsign:          strPtr("RYR123"),
		IsEmergency:       boolPtr(true),
		Operator:          strPtr("Ryanair"),
		Country:           strPtr("Ireland"),
		ICAOTypeCode:      strPtr("B738"),
		FirstAltitudeFrom: intPtr(0),
		FirstAltitudeTo:   intPtr(10000),
		LastAltitudeFrom:  intPtr(20000),
		LastAltitudeTo:    intPtr(40000),
	}

	built := BuildCriteria(req, &mockParser{})

	c := built.Criteria
	assert.Equal(t, &from, c.DateFrom)
	assert.Equal(t, &to, c.DateTo)
	assert.Equal(t, "4CA1D2", c.ICAO24)
	assert.Equal(t, "EI-DWT", c.Registration)
	assert.Equal(t, []string{"RYR123"}, c.Callsigns)
	assert.Equal(t, boolPtr(true), c.IsEmergency)
	assert.Equal(t, "Ryanair", c.Operator)
	assert.Equal(t, "Ireland", c.Country)
	assert.Equal(t, "B738", c.ICAOTypeCode)
	assert.Equal(t, intPtr(0), c.FirstAltitudeFrom)
	assert.Equal(t, intPtr(10000), c.FirstAltitudeTo)
	assert.Equal(t, intPtr(20000), c.LastAltitudeFrom)
	assert.Equal(t, intPtr(40000), c.LastAltitudeTo)

	assert.False(t, built.NonDB.HasAny())
}

func TestBuildCriteriaSplitsNonDatabasePredicates(t *testing.T) {
	req := &ReportRequest{
		Kind:                   KindByDate,
		IsMilitary:             boolPtr(true),
		Species:                speciesPtr(standingdata.SpeciesSeaplane),
		WakeTurbulenceCategory: wtcPtr(standingdata.WTCHeavy),
	}

	built := BuildCriteria(req, &mockParser{})

	require.True(t, built.NonDB.HasAny())
	assert.Equal(t, boolPtr(true), built.NonDB.IsMilitary)
	assert.Equal(t, speciesPtr(standingdata.SpeciesSeaplane), built.NonDB.Species)
	assert.Equal(t, wtcPtr(standingdata.WTCHeavy), built.NonDB.WakeTurbulenceCategory)

	// None of them leaks into the store criteria
	assert.Equal(t, &SearchCriteria{}, built.Criteria)
}

func TestBuildCriteriaAlternateCallsigns(t *testing.T) {
	parser := &mockParser{candidates: map[string][]string{
		"RYR123": {"RYR123", "RYR0123", "FR123"},
	}}

	req := &ReportRequest{
		Kind:                  KindByDate,
		Callsign:              strPtr("RYR123"),
		UseAlternateCallsigns: true,
	}

	built := BuildCriteria(req, parser)
	assert.Equal(t, []string{"RYR123", "RYR0123", "FR123"}, built.Criteria.Callsigns)
}

func TestBuildCriteriaGroupBy(t *testing.T) {
	tests := []struct {
		name   string
		sort1  string
		sort2  string
		expect string
	}{
		{"primary sort wins", SortByDate, SortByCallsign, SortByDate},
		{"secondary used when primary empty", "", SortByCallsign, SortByCallsign},
		{"empty when no sort", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			built := BuildCriteria(&ReportRequest{SortField1: tt.sort1, SortField2: tt.sort2}, &mockParser{})
			assert.Equal(t, tt.expect, built.GroupBy)
		})
	}
}

func TestNonDatabaseCriteriaMatches(t *testing.T) {
	provider := newMockStandingData()
	provider.types["B738"] = &standingdata.AircraftType{
		ICAOTypeCode: "B738",
		Species:      standingdata.SpeciesLandplane,
		WTC:          standingdata.WTCMedium,
	}
	provider.blocks["43C000"] = &standingdata.CodeBlock{Country: "United Kingdom", IsMilitary: true}

	refs := NewReferenceResolver(provider)

	military := &Aircraft{ID: 1, ICAO24: "43C000", ICAOTypeCode: "B738"}
	civilian := &Aircraft{ID: 2, ICAO24: "4CA1D2", ICAOTypeCode: "B738"}

	milOnly := &NonDatabaseCriteria{IsMilitary: boolPtr(true)}
	assert.True(t, milOnly.Matches(military, refs))
	assert.False(t, milOnly.Matches(civilian, refs))
	assert.False(t, milOnly.Matches(nil, refs))

	nonMil := &NonDatabaseCriteria{IsMilitary: boolPtr(false)}
	assert.True(t, nonMil.Matches(civilian, refs))
	assert.True(t, nonMil.Matches(nil, refs)) // unknown aircraft resolves to non-military

	landplane := &NonDatabaseCriteria{Species: speciesPtr(standingdata.SpeciesLandplane)}
	assert.True(t, landplane.Matches(civilian, refs))
	assert.False(t, landplane.Matches(nil, refs))

	heavy := &NonDatabaseCriteria{WakeTurbulenceCategory: wtcPtr(standingdata.WTCHeavy)}
	assert.False(t, heavy.Matches(civilian, refs))
}
