package feedfilter

import (
	"time"
)

// Message is a single aircraft message presented to the filter. Exactly two
// concrete types implement it: PositionMessage and RawModeSMessage.
type Message interface {
	// Addr returns the ICAO24 transponder address as hex text
	Addr() string
	// MLATDerived reports whether the message was produced by multilateration
	MLATDerived() bool
	// OutOfBand reports whether the message arrived outside the normal
	// position feed (e.g. rebroadcast or TIS-B style sources)
	OutOfBand() bool
}

// PositionMessage is a decoded ADS-B style message that may carry a position.
// Lat/Lon/Track are pointers because a message without coordinates is still
// useful to downstream consumers such as track history.
type PositionMessage struct {
	ICAO24      string
	Callsign    string
	Squawk      string
	Altitude    *float64
	GroundSpeed *float64
	Lat         *float64
	Lon         *float64
	Track       *float64
	OnGround    *bool
	IsMLAT      bool
	IsOutOfBand bool
	Received    time.Time
}

func (m PositionMessage) Addr() string      { return m.ICAO24 }
func (m PositionMessage) MLATDerived() bool { return m.IsMLAT }
func (m PositionMessage) OutOfBand() bool   { return m.IsOutOfBand }

// RawModeSMessage is an undecoded Mode-S frame. It carries no position of its
// own, so there is nothing to strip: it either passes whole or is dropped.
type RawModeSMessage struct {
	ICAO24         string
	DownlinkFormat int
	Payload        []byte
	IsMLAT         bool
	Received       time.Time
}

func (m RawModeSMessage) Addr() string      { return m.ICAO24 }
func (m RawModeSMessage) MLATDerived() bool { return m.IsMLAT }
func (m RawModeSMessage) OutOfBand() bool   { return false }
