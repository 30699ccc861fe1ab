package system

import (
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/feed"
	"github.com/milk9111/deskpet/motion"
)

type Publisher interface {
	Publish(msg feed.Message)
}

// FeedSystem forwards the frame's motion events to the event feed.
type FeedSystem struct {
	pub Publisher
}

func NewFeedSystem(pub Publisher) *FeedSystem {
	return &FeedSystem{pub: pub}
}

func (s *FeedSystem) Update(w *ecs.World) {
	if s == nil || s.pub == nil {
		return
	}
	w.Events().Each(EventMotion, func(ev ecs.Event) {
		if me, ok := ev.Data.(motion.Event); ok {
			s.pub.Publish(feed.FromEvent(me))
		}
	})
}
