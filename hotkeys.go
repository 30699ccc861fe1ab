package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.design/x/hotkey"

	"github.com/milk9111/deskpet/ecs"
)

// Action is something a global hotkey does to the game. Actions run on the
// loop goroutine.
type Action int

const (
	ActionPause Action = iota
	ActionChat
	ActionFollow
	ActionClickThrough
	ActionScale
	ActionTransparency
	ActionObserve
	ActionHistory
	ActionExport
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionPause:
		return "pause"
	case ActionChat:
		return "chat"
	case ActionFollow:
		return "follow"
	case ActionClickThrough:
		return "click_through"
	case ActionScale:
		return "scale"
	case ActionTransparency:
		return "transparency"
	case ActionObserve:
		return "observe"
	case ActionHistory:
		return "history"
	case ActionExport:
		return "export"
	case ActionQuit:
		return "quit"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Binding ties a key, pressed with Ctrl+Shift, to an action.
type Binding struct {
	Key    hotkey.Key
	Action Action
}

var DefaultBindings = []Binding{
	{Key: hotkey.KeyP, Action: ActionPause},
	{Key: hotkey.KeyC, Action: ActionChat},
	{Key: hotkey.KeyF, Action: ActionFollow},
	{Key: hotkey.KeyT, Action: ActionClickThrough},
	{Key: hotkey.KeyS, Action: ActionScale},
	{Key: hotkey.KeyA, Action: ActionTransparency},
	{Key: hotkey.KeyO, Action: ActionObserve},
	{Key: hotkey.KeyH, Action: ActionHistory},
	{Key: hotkey.KeyE, Action: ActionExport},
	{Key: hotkey.KeyQ, Action: ActionQuit},
}

type runner interface {
	Go(fn func() error)
}

// RegisterHotkeys listens for each binding on its own goroutine and posts
// the action to the loop. A key that cannot be registered, usually because
// another program owns it, is logged and skipped.
func RegisterHotkeys(ctx context.Context, g runner, sched *ecs.Scheduler, bindings []Binding, do func(Action), logger *slog.Logger) int {
	mods := []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}
	registered := 0
	for _, b := range bindings {
		hk := hotkey.New(mods, b.Key)
		if err := hk.Register(); err != nil {
			logger.Warn("hotkey unavailable", "action", b.Action, "err", err)
			continue
		}
		registered++

		action := b.Action
		g.Go(func() error {
			defer func() {
				if err := hk.Unregister(); err != nil {
					logger.Debug("hotkey unregister", "action", action, "err", err)
				}
			}()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hk.Keydown():
					sched.Post(func(*ecs.World) { do(action) })
				}
			}
		})
	}
	return registered
}
