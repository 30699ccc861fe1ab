// Package observe periodically shows the AI a screenshot so the pet can
// comment on what the user is doing.
package observe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/milk9111/deskpet/ai"
	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/ecs"
)

const taskName = "observe"

// MinInterval is the shortest allowed time between observations.
const MinInterval = 30 * time.Second

// Pet is the motion state an observation is gated on.
type Pet interface {
	Paused() bool
	Idle() bool
}

// Panel receives finished observations.
type Panel interface {
	Visible() bool
	ShowObservation(result string)
	// ObservationTimedOut tells the user the pet gave up waiting.
	ObservationTimedOut()
}

type Runner interface {
	Go(fn func() error)
}

type Config struct {
	Interval     time.Duration
	OnlyWhenIdle bool
	// Prompt returns the question sent along with the screenshot.
	Prompt func() string
}

type Observer struct {
	cfg      Config
	sched    *ecs.Scheduler
	capturer Capturer
	client   ai.Client
	pet      Pet
	panel    Panel
	runner   Runner
	ctx      context.Context
	logger   *slog.Logger

	busy atomic.Bool
}

type Deps struct {
	Scheduler *ecs.Scheduler
	Capturer  Capturer
	Client    ai.Client
	Pet       Pet
	Panel     Panel
	Runner    Runner
	Context   context.Context
	Logger    *slog.Logger
}

func New(cfg Config, d Deps) *Observer {
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}
	o := &Observer{
		cfg:      cfg,
		sched:    d.Scheduler,
		capturer: d.Capturer,
		client:   d.Client,
		pet:      d.Pet,
		panel:    d.Panel,
		runner:   d.Runner,
		ctx:      d.Context,
		logger:   d.Logger,
	}
	if o.capturer == nil {
		o.capturer = NopCapturer{}
	}
	if o.client == nil {
		o.client = ai.Nop{}
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Start arms the recurring observe task. Calling it again replaces the
// timer, so a changed interval takes effect without doubling up.
func (o *Observer) Start() {
	o.sched.Every(taskName, o.cfg.Interval, func(*ecs.World) time.Duration {
		o.Check()
		return 0
	})
}

func (o *Observer) Stop() {
	o.sched.Cancel(taskName)
}

func (o *Observer) Running() bool {
	return o.sched.Pending(taskName)
}

// SetInterval changes the period, restarting the timer if it is running.
func (o *Observer) SetInterval(d time.Duration) {
	o.cfg.Interval = max(d, MinInterval)
	if o.Running() {
		o.Start()
	}
}

func (o *Observer) SetOnlyWhenIdle(on bool) {
	o.cfg.OnlyWhenIdle = on
}

// Busy reports whether an observation is in flight.
func (o *Observer) Busy() bool {
	return o.busy.Load()
}

// Ready reports whether the pet may look at the screen now.
func (o *Observer) Ready() bool {
	if o.busy.Load() {
		return false
	}
	if o.panel != nil && o.panel.Visible() {
		return false
	}
	if o.pet != nil {
		if o.pet.Paused() {
			return false
		}
		if o.cfg.OnlyWhenIdle && !o.pet.Idle() {
			return false
		}
	}
	return true
}

// Check starts an observation if the gate allows it. It reports whether one
// was started.
func (o *Observer) Check() bool {
	if !o.Ready() || !o.busy.CompareAndSwap(false, true) {
		return false
	}

	prompt := ""
	if o.cfg.Prompt != nil {
		prompt = o.cfg.Prompt()
	}

	o.runner.Go(func() error {
		defer o.busy.Store(false)

		result, err := o.observe(prompt)
		switch {
		case errors.Is(err, common.ErrTimeout):
			o.sched.Post(func(*ecs.World) {
				if o.panel != nil {
					o.panel.ObservationTimedOut()
				}
			})
		case err != nil || result == "":
		default:
			o.sched.Post(func(*ecs.World) {
				if o.panel != nil {
					o.panel.ShowObservation(result)
				}
			})
		}
		return nil
	})
	return true
}

// observe captures and analyses one screenshot. Failures are logged here;
// an empty result means the AI had nothing to say.
func (o *Observer) observe(prompt string) (string, error) {
	shot, err := o.capturer.Capture(o.ctx)
	if err != nil {
		o.logger.Warn("screen capture failed", "err", err)
		return "", err
	}

	result, err := o.client.AnalyzeImage(o.ctx, shot, prompt)
	if err != nil {
		o.logger.Warn("screenshot analysis failed", "err", err)
		return "", err
	}
	result = strings.TrimSpace(result)
	if result != "" {
		o.logger.Info("screenshot analysed", "len", len(result))
	}
	return result, nil
}
