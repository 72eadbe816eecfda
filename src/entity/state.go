package entity

// State is the capability state of an entity. It is derived from provenance
// every time it is asked for, never stored.
type State uint32

const (
	// Unknown means only gossip has mentioned the entity. Its existence is
	// not confirmed by the local node.
	Unknown State = iota

	// KnownForeign means an authoritative source confirmed the entity, but
	// the local node does not participate in it.
	KnownForeign

	// KnownMine means an authoritative source flagged the local node as a
	// participant.
	KnownMine
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Unknown:
		return "Unknown"
	case KnownForeign:
		return "KnownForeign"
	case KnownMine:
		return "KnownMine"
	default:
		return "Invalid"
	}
}
