package feedfilter

// Verdict is the outcome of filtering a single message
type Verdict int

const (
	// VerdictUnchanged passes the message through as-is
	VerdictUnchanged Verdict = iota
	// VerdictMutated passes a modified copy of the message
	VerdictMutated
	// VerdictDropped suppresses the message entirely
	VerdictDropped
)

func (v Verdict) String() string {
	switch v {
	case VerdictUnchanged:
		return "unchanged"
	case VerdictMutated:
		return "mutated"
	case VerdictDropped:
		return "dropped"
	}
	return "unknown"
}

// Filter decides what happens to a single incoming message under the current
// policy. It is stateless with respect to the message stream and safe to call
// from any number of ingestion goroutines.
//
// The two message types are deliberately asymmetric under MLAT prohibition:
// a position message degrades gracefully (coordinates and track stripped,
// everything else kept), while a raw Mode-S frame is dropped outright since
// the whole frame is MLAT-derived.
//
// On VerdictUnchanged the original message is returned. On VerdictMutated a
// fresh value is returned and the input is left untouched. On VerdictDropped
// the returned message is nil and must not be used.
func (s *Service) Filter(msg Message) (Verdict, Message) {
	p := s.snapshot()

	if p.isICAOProhibited(msg.Addr()) {
		return VerdictDropped, nil
	}

	if (msg.MLATDerived() || msg.OutOfBand()) && p.Enabled && p.ProhibitMLAT {
		switch m := msg.(type) {
		case PositionMessage:
			stripped := m
			stripped.Lat = nil
			stripped.Lon = nil
			stripped.Track = nil
			return VerdictMutated, stripped
		case RawModeSMessage:
			return VerdictDropped, nil
		}
	}

	return VerdictUnchanged, msg
}
