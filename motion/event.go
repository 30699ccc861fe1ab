package motion

import "github.com/jakecoffman/cp"

type EventKind uint8

const (
	EventMoved EventKind = iota
	EventDirectionChanged
	EventModeChanged
	EventRespawned
	EventIdleStarted
	EventIdleEnded
	EventPaused
	EventResumed
)

func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventDirectionChanged:
		return "direction_changed"
	case EventModeChanged:
		return "mode_changed"
	case EventRespawned:
		return "respawned"
	case EventIdleStarted:
		return "idle_started"
	case EventIdleEnded:
		return "idle_ended"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	}
	return "unknown"
}

// Event is emitted by the machine whenever observable state changes.
type Event struct {
	Kind   EventKind
	Mode   Mode
	Prev   Mode
	Facing Facing
	Pos    cp.Vector
	Edge   Edge
	// StayPut is set on EventIdleStarted when the current frames should be
	// kept instead of switching to an idle animation.
	StayPut bool
}
