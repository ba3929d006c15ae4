package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tailscan/tailscan/internal/standingdata"
)

func TestResolverMemoizesAircraftTypes(t *testing.T) {
	provider := newMockStandingData()
	provider.types["B738"] = &standingdata.AircraftType{ICAOTypeCode: "B738"}

	refs := NewReferenceResolver(provider)

	// Three rows sharing one type code trigger exactly one provider call
	first := refs.AircraftType("B738")
	second := refs.AircraftType("B738")
	third := refs.AircraftType("B738")

	assert.Same(t, first, second)
	assert.Same(t, first, third)
	assert.Equal(t, []string{"B738"}, provider.typeCalls)
}

func TestResolverMemoizesMisses(t *testing.T) {
	provider := newMockStandingData()
	refs := NewReferenceResolver(provider)

	assert.Nil(t, refs.AircraftType("ZZZZ"))
	assert.Nil(t, refs.AircraftType("ZZZZ"))
	assert.Equal(t, []string{"ZZZZ"}, provider.typeCalls)

	assert.Nil(t, refs.CodeBlock("AAAAAA"))
	assert.Nil(t, refs.CodeBlock("AAAAAA"))
	assert.Equal(t, []string{"AAAAAA"}, provider.blockCalls)

	assert.Nil(t, refs.Route("XYZ999"))
	assert.Nil(t, refs.Route("XYZ999"))
	assert.Equal(t, []string{"XYZ999"}, provider.routeCalls)
}

func TestResolverEmptyKeyNeverQueries(t *testing.T) {
	provider := newMockStandingData()
	refs := NewReferenceResolver(provider)

	assert.Nil(t, refs.AircraftType(""))
	assert.Nil(t, refs.CodeBlock(""))
	assert.Nil(t, refs.Route(""))

	assert.Empty(t, provider.typeCalls)
	assert.Empty(t, provider.blockCalls)
	assert.Empty(t, provider.routeCalls)
}

func TestResolverDistinctKeysQueryOncePerKey(t *testing.T) {
	provider := newMockStandingData()
	provider.blocks["43C"] = &standingdata.CodeBlock{Country: "United Kingdom"}
	refs := NewReferenceResolver(provider)

	refs.CodeBlock("43C")
	refs.CodeBlock("4CA")
	refs.CodeBlock("43C")
	refs.CodeBlock("4CA")

	assert.Equal(t, []string{"43C", "4CA"}, provider.blockCalls)
}
