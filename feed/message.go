// Package feed broadcasts the pet's motion events to websocket listeners,
// for overlays and debugging tools.
package feed

import "github.com/milk9111/deskpet/motion"

type Message struct {
	Type   string  `json:"type"`
	Mode   string  `json:"mode"`
	Facing string  `json:"facing"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Prev   string  `json:"prev,omitempty"`
	Edge   string  `json:"edge,omitempty"`
}

func FromEvent(ev motion.Event) Message {
	msg := Message{
		Type:   ev.Kind.String(),
		Mode:   ev.Mode.String(),
		Facing: ev.Facing.String(),
		X:      ev.Pos.X,
		Y:      ev.Pos.Y,
	}
	switch ev.Kind {
	case motion.EventModeChanged:
		msg.Prev = ev.Prev.String()
	case motion.EventRespawned:
		msg.Edge = ev.Edge.String()
	}
	return msg
}
