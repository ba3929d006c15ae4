package reports

import (
	"github.com/tailscan/tailscan/internal/standingdata"
)

// ReferenceResolver memoizes standing data lookups for the duration of one
// report execution. Rows in a report tend to share type codes, address
// prefixes and callsigns, so each distinct key hits the provider once.
// The memo is scoped to a single report and discarded with it; it is not
// safe for concurrent use, which is fine because report execution is
// single-threaded per request.
type ReferenceResolver struct {
	provider StandingDataProvider

	types  map[string]*standingdata.AircraftType
	blocks map[string]*standingdata.CodeBlock
	routes map[string]*standingdata.Route
}

// NewReferenceResolver creates a resolver for one report execution
func NewReferenceResolver(provider StandingDataProvider) *ReferenceResolver {
	return &ReferenceResolver{
		provider: provider,
		types:    make(map[string]*standingdata.AircraftType),
		blocks:   make(map[string]*standingdata.CodeBlock),
		routes:   make(map[string]*standingdata.Route),
	}
}

// AircraftType resolves an ICAO type designator. An empty key is not found
// without consulting the provider.
func (r *ReferenceResolver) AircraftType(icaoTypeCode string) *standingdata.AircraftType {
	if icaoTypeCode == "" {
		return nil
	}
	if typ, ok := r.types[icaoTypeCode]; ok {
		return typ
	}
	typ := r.provider.FindAircraftType(icaoTypeCode)
	r.types[icaoTypeCode] = typ
	return typ
}

// CodeBlock resolves the code block for an ICAO24 address. An empty key is
// not found without consulting the provider.
func (r *ReferenceResolver) CodeBlock(icao24 string) *standingdata.CodeBlock {
	if icao24 == "" {
		return nil
	}
	if block, ok := r.blocks[icao24]; ok {
		return block
	}
	block := r.provider.FindCodeBlock(icao24)
	r.blocks[icao24] = block
	return block
}

// Route resolves a single callsign candidate. An empty key is not found
// without consulting the provider.
func (r *ReferenceResolver) Route(callsign string) *standingdata.Route {
	if callsign == "" {
		return nil
	}
	if route, ok := r.routes[callsign]; ok {
		return route
	}
	route := r.provider.FindRoute(callsign)
	r.routes[callsign] = route
	return route
}
