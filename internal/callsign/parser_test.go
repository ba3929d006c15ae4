package callsign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllRouteCallsigns(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name         string
		callsign     string
		operatorCode string
		want         []string
	}{
		{
			name:     "exact callsign always first",
			callsign: "BAW123",
			want:     []string{"BAW123", "BAW0123"},
		},
		{
			name:     "leading zeros stripped",
			callsign: "BAW0123",
			want:     []string{"BAW0123", "BAW123"},
		},
		{
			name:         "operator code variants follow prefix variants",
			callsign:     "RYR123",
			operatorCode: "FR",
			want:         []string{"RYR123", "RYR0123", "FR123", "FR0123"},
		},
		{
			name:         "operator code equal to prefix adds nothing",
			callsign:     "BAW123",
			operatorCode: "BAW",
			want:         []string{"BAW123", "BAW0123"},
		},
		{
			name:     "lowercase and whitespace normalized",
			callsign: "  baw123 ",
			want:     []string{"BAW123", "BAW0123"},
		},
		{
			name:     "four digit flight number has no padding variant",
			callsign: "RYR1234",
			want:     []string{"RYR1234"},
		},
		{
			name:     "alphanumeric suffix keeps its letters",
			callsign: "BAW12A",
			want:     []string{"BAW12A", "BAW0012A"},
		},
		{
			name:     "no alpha prefix yields only the exact form",
			callsign: "7L123",
			want:     []string{"7L123"},
		},
		{
			name:     "all letters yields only the exact form",
			callsign: "HELLO",
			want:     []string{"HELLO"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.AllRouteCallsigns(tt.callsign, tt.operatorCode))
		})
	}
}

func TestAllRouteCallsignsEmpty(t *testing.T) {
	p := NewParser()
	assert.Nil(t, p.AllRouteCallsigns("", "FR"))
	assert.Nil(t, p.AllRouteCallsigns("   ", ""))
}
