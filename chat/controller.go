// Package chat drives the pet's chat panel: what it shows, when it clears,
// and the round trips to the AI collaborator behind it.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/milk9111/deskpet/ai"
	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/script"
)

const (
	clearTask        = "chat.clear"
	recallTask       = "chat.recall"
	observeCloseTask = "chat.observe_close"
	greetTask        = "chat.greet"

	RecallDelay       = 500 * time.Millisecond
	GreetDelay        = time.Second
	ObservationExpiry = 3 * time.Minute
)

// Pauser is the part of the motion machine the panel controls.
type Pauser interface {
	SetPaused(paused bool)
	Paused() bool
}

// Runner starts background work. *errgroup.Group satisfies it.
type Runner interface {
	Go(fn func() error)
}

type Deps struct {
	Scheduler *ecs.Scheduler
	Client    ai.Client
	History   *ai.Conversation
	Voice     *script.Voice
	Pet       Pauser
	Runner    Runner
	Context   context.Context
	Logger    *slog.Logger
	Now       func() time.Time
}

// Controller owns the panel state. Every method must run on the loop
// goroutine; replies from workers come back through Scheduler.Post.
type Controller struct {
	sched   *ecs.Scheduler
	client  ai.Client
	history *ai.Conversation
	voice   *script.Voice
	pet     Pauser
	runner  Runner
	ctx     context.Context
	logger  *slog.Logger
	now     func() time.Time

	visible     bool
	passive     bool
	wasPaused   bool
	text        string
	observation bool
	lastSeen    string
	lastReply   string
	inFlight    int
}

func New(d Deps) *Controller {
	c := &Controller{
		sched:   d.Scheduler,
		client:  d.Client,
		history: d.History,
		voice:   d.Voice,
		pet:     d.Pet,
		runner:  d.Runner,
		ctx:     d.Context,
		logger:  d.Logger,
		now:     d.Now,
	}
	if c.client == nil {
		c.client = ai.Nop{}
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func (c *Controller) Visible() bool { return c.visible }

func (c *Controller) Text() string { return c.text }

// Observing reports whether the panel still shows an unanswered observation.
func (c *Controller) Observing() bool { return c.observation }

func (c *Controller) LastReply() string { return c.lastReply }

// Busy reports whether a chat request is in flight.
func (c *Controller) Busy() bool { return c.inFlight > 0 }

// Size is the panel size for the current text.
func (c *Controller) Size() (int, int) {
	return Measure(c.text)
}

// Open shows the panel and pauses the pet. If the pet has looked at the
// screen before, it brings that up shortly after.
func (c *Controller) Open() {
	if c.visible && !c.passive {
		return
	}
	wasShowing := c.visible
	c.visible = true
	c.passive = false
	if c.pet != nil {
		c.wasPaused = c.pet.Paused()
		c.pet.SetPaused(true)
	}
	if wasShowing {
		return
	}

	c.setText("", false)
	if c.lastSeen != "" {
		seen := c.lastSeen
		c.sched.After(recallTask, RecallDelay, func(*ecs.World) {
			if c.visible && c.text == "" {
				c.Say(c.voice.Line(script.Recall, seen))
			}
		})
	}
}

// Close hides the panel and lets the pet move again unless the user had it
// paused, before the panel opened or through TogglePause since.
func (c *Controller) Close() {
	if !c.visible {
		return
	}
	c.visible = false
	c.observation = false
	c.sched.Cancel(clearTask)
	c.sched.Cancel(recallTask)
	c.sched.Cancel(observeCloseTask)

	if !c.passive && c.pet != nil && !c.wasPaused {
		c.pet.SetPaused(false)
	}
	c.passive = false
}

// TogglePause flips the user's pause and reports the new setting. While the
// open panel holds the pet still, the choice takes effect when it closes.
func (c *Controller) TogglePause() bool {
	if c.pet == nil {
		return false
	}
	if c.visible && !c.passive {
		c.wasPaused = !c.wasPaused
		return c.wasPaused
	}
	paused := !c.pet.Paused()
	c.pet.SetPaused(paused)
	return paused
}

func (c *Controller) Toggle() {
	if c.visible && !c.passive {
		c.Close()
		return
	}
	c.Open()
}

// Say shows text and arms the auto-clear timer.
func (c *Controller) Say(text string) {
	c.setText(text, true)
}

func (c *Controller) setText(text string, autoClear bool) {
	c.text = text
	c.sched.Cancel(clearTask)
	if !autoClear || text == "" {
		return
	}
	c.sched.After(clearTask, ClearAfter(text), func(*ecs.World) {
		c.text = ""
		if c.passive {
			c.Close()
		}
	})
}

// Greet pops the greeting up without pausing the pet; it goes away with
// the auto-clear.
func (c *Controller) Greet() {
	c.sched.After(greetTask, GreetDelay, func(*ecs.World) {
		c.showPassive(c.voice.Line(script.Greeting, ""))
	})
}

// showPassive pops text up without pausing the pet. It does nothing while
// the panel is showing something else.
func (c *Controller) showPassive(text string) {
	if c.visible {
		return
	}
	c.visible = true
	c.passive = true
	c.Say(text)
}

// Send forwards msg to the AI on a worker and shows the thinking line until
// the reply comes back.
func (c *Controller) Send(msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if !c.visible || c.passive {
		c.Open()
	}
	c.observation = false
	c.sched.Cancel(observeCloseTask)
	c.sched.Cancel(recallTask)
	c.setText(c.voice.Line(script.Thinking, ""), false)

	var history []ai.Message
	if c.history != nil {
		history = c.history.Recent(ai.RecentTurns)
	}

	c.inFlight++
	c.runner.Go(func() error {
		reply, err := c.client.Chat(c.ctx, msg, history)
		c.sched.Post(func(*ecs.World) {
			c.finish(msg, reply, err)
		})
		return nil
	})
}

func (c *Controller) finish(msg, reply string, err error) {
	c.inFlight--
	if err != nil {
		c.logger.Warn("chat failed", "err", err)
		c.Say(c.voice.Line(failureLine(err), ""))
		return
	}

	c.logger.Info("chat reply", "len", len(reply))
	c.lastReply = reply
	if c.history != nil {
		at := c.now()
		c.history.Append(ai.RoleUser, msg, at)
		c.history.Append(ai.RoleAssistant, reply, at)
		c.saveHistory()
	}
	c.Say(c.voice.Line(script.Reply, reply))
}

func failureLine(err error) string {
	switch {
	case errors.Is(err, common.ErrTimeout):
		return script.Timeout
	case errors.Is(err, common.ErrDisabled):
		return script.Disabled
	}
	return script.ChatFailed
}

// ShowObservation records what the pet saw on screen. When the panel is
// closed it opens with the observation, pausing the pet, and closes again
// after ObservationExpiry unless the user answers.
func (c *Controller) ShowObservation(result string) {
	result = strings.TrimSpace(result)
	if result == "" {
		return
	}
	c.lastSeen = result
	if c.history != nil {
		c.history.Append(ai.RoleAssistant, result, c.now())
		c.saveHistory()
	}

	if c.visible && !c.passive {
		return
	}
	c.Open()
	c.sched.Cancel(recallTask)
	c.setText(c.voice.Line(script.Observation, result), false)
	c.observation = true
	c.sched.After(observeCloseTask, ObservationExpiry, func(*ecs.World) {
		if c.observation {
			c.Close()
		}
	})
}

// ObservationTimedOut lets the user know a screenshot analysis gave up,
// in a bubble that clears itself.
func (c *Controller) ObservationTimedOut() {
	c.showPassive(c.voice.Line(script.Timeout, ""))
}

// ResetHistory forgets the conversation and the last observation.
func (c *Controller) ResetHistory() error {
	c.lastSeen = ""
	if c.history == nil {
		return nil
	}
	return c.history.Reset()
}

func (c *Controller) saveHistory() {
	if err := c.history.Save(); err != nil {
		c.logger.Warn("saving chat history", "err", err)
	}
}
