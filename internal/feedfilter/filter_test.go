package feedfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailscan/tailscan/internal/config"
)

func floatPtr(v float64) *float64 { return &v }

func testPositionMessage() PositionMessage {
	onGround := false
	return PositionMessage{
		ICAO24:      "4CA1D2",
		Callsign:    "RYR123",
		Squawk:      "7000",
		Altitude:    floatPtr(35000),
		GroundSpeed: floatPtr(430),
		Lat:         floatPtr(51.47),
		Lon:         floatPtr(-0.45),
		Track:       floatPtr(271.5),
		OnGround:    &onGround,
	}
}

func TestFilterPassThrough(t *testing.T) {
	s := newTestService(config.FilterConfig{Enabled: true, ProhibitMLAT: true, ProhibitICAOs: true})

	msg := testPositionMessage()
	verdict, out := s.Filter(msg)

	assert.Equal(t, VerdictUnchanged, verdict)
	assert.Equal(t, msg, out)
}

func TestFilterDropsProhibitedICAO(t *testing.T) {
	s := newTestService(config.FilterConfig{
		Enabled:       true,
		ProhibitICAOs: true,
		ICAOs:         []string{"4CA1D2"},
	})

	verdict, out := s.Filter(testPositionMessage())
	assert.Equal(t, VerdictDropped, verdict)
	assert.Nil(t, out)

	verdict, out = s.Filter(RawModeSMessage{ICAO24: "4ca1d2"})
	assert.Equal(t, VerdictDropped, verdict)
	assert.Nil(t, out)
}

func TestFilterStripsMLATPosition(t *testing.T) {
	s := newTestService(config.FilterConfig{Enabled: true, ProhibitMLAT: true})

	msg := testPositionMessage()
	msg.IsMLAT = true
	verdict, out := s.Filter(msg)

	require.Equal(t, VerdictMutated, verdict)
	stripped, ok := out.(PositionMessage)
	require.True(t, ok)

	// Position and track cleared, everything else retained
	assert.Nil(t, stripped.Lat)
	assert.Nil(t, stripped.Lon)
	assert.Nil(t, stripped.Track)
	assert.Equal(t, msg.ICAO24, stripped.ICAO24)
	assert.Equal(t, msg.Callsign, stripped.Callsign)
	assert.Equal(t, msg.Squawk, stripped.Squawk)
	assert.Equal(t, msg.Altitude, stripped.Altitude)
	assert.Equal(t, msg.GroundSpeed, stripped.GroundSpeed)
	assert.Equal(t, msg.OnGround, stripped.OnGround)
	assert.True(t, stripped.IsMLAT)

	// The input value is untouched; the mutated result is a fresh value
	assert.NotNil(t, msg.Lat)
	assert.NotNil(t, msg.Lon)
	assert.NotNil(t, msg.Track)
}

func TestFilterStripsOutOfBandPosition(t *testing.T) {
	s := newTestService(config.FilterConfig{Enabled: true, ProhibitMLAT: true})

	msg := testPositionMessage()
	msg.IsOutOfBand = true
	verdict, out := s.Filter(msg)

	require.Equal(t, VerdictMutated, verdict)
	stripped := out.(PositionMessage)
	assert.Nil(t, stripped.Lat)
	assert.Nil(t, stripped.Lon)
	assert.Nil(t, stripped.Track)
}

func TestFilterDropsMLATRawModeS(t *testing.T) {
	s := newTestService(config.FilterConfig{Enabled: true, ProhibitMLAT: true})

	// Same policy that merely mutates a position message drops a raw frame
	verdict, out := s.Filter(RawModeSMessage{ICAO24: "4CA1D2", IsMLAT: true, Payload: []byte{0x8d}})
	assert.Equal(t, VerdictDropped, verdict)
	assert.Nil(t, out)
}

func TestFilterMLATPassesWhenNotProhibited(t *testing.T) {
	s := newTestService(config.FilterConfig{Enabled: true, ProhibitMLAT: false})

	msg := testPositionMessage()
	msg.IsMLAT = true
	verdict, out := s.Filter(msg)
	assert.Equal(t, VerdictUnchanged, verdict)
	assert.Equal(t, msg, out)

	raw := RawModeSMessage{ICAO24: "4CA1D2", IsMLAT: true}
	verdict, out = s.Filter(raw)
	assert.Equal(t, VerdictUnchanged, verdict)
	assert.Equal(t, raw, out)
}

func TestFilterDisabledPassesEverything(t *testing.T) {
	s := newTestService(config.FilterConfig{
		Enabled:       false,
		ProhibitMLAT:  true,
		ProhibitICAOs: true,
		ICAOs:         []string{"4CA1D2"},
	})

	msg := testPositionMessage()
	msg.IsMLAT = true
	verdict, _ := s.Filter(msg)
	assert.Equal(t, VerdictUnchanged, verdict)

	verdict, _ = s.Filter(RawModeSMessage{ICAO24: "4CA1D2", IsMLAT: true})
	assert.Equal(t, VerdictUnchanged, verdict)
}
