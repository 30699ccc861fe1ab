package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/deskpet/ai"
	"github.com/milk9111/deskpet/assets"
	"github.com/milk9111/deskpet/chat"
	"github.com/milk9111/deskpet/config"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/entity"
	"github.com/milk9111/deskpet/ecs/system"
	"github.com/milk9111/deskpet/feed"
	"github.com/milk9111/deskpet/motion"
	"github.com/milk9111/deskpet/observe"
	"github.com/milk9111/deskpet/prefabs"
	"github.com/milk9111/deskpet/script"
)

const motionPeriod = 30 * time.Millisecond

// Options are the process flags.
type Options struct {
	ConfigPath string
	PrefabDir  string
	Debug      bool
	FeedAddr   string
	// Seed makes the pet's wandering reproducible when non-zero.
	Seed uint64
}

type Game struct {
	opts   Options
	ctx    context.Context
	group  *errgroup.Group
	logger *slog.Logger

	cfg  config.Config
	spec prefabs.PetSpec

	world   *ecs.World
	sched   *ecs.Scheduler
	host    system.Host
	pet     ecs.Entity
	machine *motion.Machine

	voice    *script.Voice
	history  *ai.Conversation
	chat     *chat.Controller
	chatUI   *ChatUI
	observer *observe.Observer
	render   *system.RenderSystem
	hub      *feed.Hub

	quit bool
}

// NewGame loads settings, sprites and the pet prefab and wires every
// system. Background work is started on group and stops with ctx.
func NewGame(ctx context.Context, group *errgroup.Group, opts Options, logger *slog.Logger) (*Game, error) {
	g := &Game{
		opts:   opts,
		ctx:    ctx,
		group:  group,
		logger: logger,
		world:  ecs.NewWorld(),
		sched:  ecs.NewScheduler(),
		host:   system.EbitenHost{},
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.Warn("using default config", "err", err)
	}
	g.cfg = cfg
	if opts.FeedAddr != "" {
		g.cfg.FeedAddr = opts.FeedAddr
	}

	spec, err := prefabs.LoadPetSpec(prefabs.PetFile)
	if err != nil {
		logger.Warn("using default pet prefab", "err", err)
	}
	g.spec = spec

	if err := g.loadVoice(); err != nil {
		logger.Warn("voice script", "err", err)
	}

	sprites := g.loadSprites()
	size := sprites.Size()
	sw, sh := g.host.ScreenSize()

	var r motion.Rand
	if opts.Seed != 0 {
		r = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}
	g.machine = motion.New(motion.Session{
		Bounds:      motion.Bounds{W: float64(sw), H: float64(sh)},
		SpriteW:     float64(size.X),
		SpriteH:     float64(size.Y),
		FollowMouse: g.cfg.FollowMouse,
		Params:      g.spec.Motion,
		Rand:        r,
		Start:       cp.Vector{X: float64(sw-size.X) / 2, Y: float64(sh-size.Y) / 2},
	})

	g.pet, err = entity.NewPet(g.world, entity.PetConfig{
		Machine:      g.machine,
		Sets:         entity.FrameSets(sprites),
		Idle:         g.spec.Animation.Idle,
		Alpha:        g.cfg.Alpha(),
		ClickThrough: g.cfg.ClickThrough,
	})
	if err != nil {
		return nil, err
	}

	client := g.newClient()
	g.history = g.loadHistory()
	g.chat = chat.New(chat.Deps{
		Scheduler: g.sched,
		Client:    client,
		History:   g.history,
		Voice:     g.voice,
		Pet:       g.machine,
		Runner:    group,
		Context:   ctx,
		Logger:    logger.With("component", "chat"),
	})

	g.chatUI, err = NewChatUI(g.chat, g.spec.Chat, g.clipboardWriter())
	if err != nil {
		return nil, err
	}

	g.observer = observe.New(observe.Config{
		Interval:     g.cfg.ObservePeriod(),
		OnlyWhenIdle: g.cfg.OnlyObserveWhenIdle,
		Prompt:       func() string { return g.voice.Line(script.ObservePrompt, "") },
	}, observe.Deps{
		Scheduler: g.sched,
		Capturer:  g.newCapturer(),
		Client:    client,
		Pet:       g.machine,
		Panel:     g.chat,
		Runner:    group,
		Context:   ctx,
		Logger:    logger.With("component", "observe"),
	})

	g.render = system.NewRenderSystem(opts.Debug)
	if g.cfg.FeedAddr != "" {
		g.hub = feed.NewHub(logger.With("component", "feed"))
	}

	g.registerSystems()
	return g, nil
}

// registerSystems arms the loop. Order matters: input feeds the motion
// tick, which the animation follows, and the window is placed last so the
// chat panel sees this frame's layout.
func (g *Game) registerSystems() {
	g.sched.AddSystem("input", 0, system.NewInputSystem(g.host, g.chat))
	g.sched.Every("motion", motionPeriod, system.NewMotionSystem().Task)
	g.sched.AddSystem("animation", 0, system.NewAnimationSystem(ebiten.TPS(), nil))
	g.sched.AddSystem("window", 0, system.NewWindowSystem(g.host, g.chat))
	g.sched.AddSystem("chat_ui", 0, g.chatUI)
	if g.hub != nil {
		g.sched.AddSystem("feed", 0, system.NewFeedSystem(g.hub))
	}

	if g.cfg.EnableObservation {
		g.observer.Start()
	}
	g.chat.Greet()
}

// Start launches the background workers: the event feed, the file watcher
// and the global hotkeys.
func (g *Game) Start() {
	if g.hub != nil {
		addr := g.cfg.FeedAddr
		g.group.Go(func() error {
			g.logger.Info("event feed listening", "addr", addr, "path", feed.Path)
			if err := feed.Serve(g.ctx, addr, g.hub); err != nil {
				g.logger.Error("event feed stopped", "err", err)
			}
			return nil
		})
	}

	g.watch()

	n := RegisterHotkeys(g.ctx, g.group, g.sched, DefaultBindings, g.do, g.logger)
	g.logger.Debug("hotkeys registered", "count", n)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.sched.Advance(g.world, time.Second/time.Duration(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	g.chatUI.Draw(screen)
}

// Layout keeps one screen pixel per window pixel; the window system sizes
// the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return max(outsideWidth, 1), max(outsideHeight, 1)
}

func (g *Game) loadVoice() error {
	name := g.cfg.PetName
	if name == "" {
		name = g.spec.Name
	}
	src, err := prefabs.LoadScript(g.spec.Voice)
	if err != nil {
		g.voice, _ = script.NewVoice(nil, name, g.logger)
		return err
	}
	g.voice, err = script.NewVoice(src, name, g.logger)
	return err
}

func (g *Game) loadSprites() assets.Sprites {
	sprites, err := assets.LoadSprites(g.cfg.SpriteDir, g.cfg.Scale())
	if err != nil {
		g.logger.Warn("using placeholder sprites", "dir", g.cfg.SpriteDir, "err", err)
	}
	if d := g.spec.Animation.DragDelay; d > 0 {
		sprites[assets.Drag] = assets.WithDelay(sprites[assets.Drag], d)
	}
	return sprites
}

func (g *Game) newClient() ai.Client {
	if !g.cfg.AIReady() {
		g.logger.Info("AI chat disabled")
		return ai.Nop{}
	}
	prompt, err := ai.LoadPrompt(config.Resolve(g.opts.ConfigPath, g.cfg.AI.PromptFile))
	if err != nil {
		g.logger.Warn("using default prompt", "err", err)
	}
	return ai.NewHTTPClient(ai.Config{
		BaseURL:      g.cfg.AI.BaseURL,
		APIKey:       g.cfg.AI.APIKey,
		Model:        g.cfg.AI.Model,
		Temperature:  g.cfg.AI.Temperature,
		MaxTokens:    g.cfg.AI.MaxTokens,
		SystemPrompt: prompt,
		VisionURL:    g.cfg.Vision.APIURL,
		VisionKey:    g.cfg.VisionKey(),
		VisionModel:  g.cfg.Vision.Model,
	}, g.logger.With("component", "ai"))
}

func (g *Game) loadHistory() *ai.Conversation {
	limit := g.cfg.AI.MaxHistoryLength
	if !g.cfg.AI.AutoSaveHistory {
		return ai.NewConversation("", limit)
	}
	path := config.Resolve(g.opts.ConfigPath, g.cfg.AI.HistoryFile)
	history, err := ai.LoadConversation(path, limit)
	if err != nil {
		g.logger.Warn("starting with empty chat history", "err", err)
	}
	return history
}

func (g *Game) newCapturer() observe.Capturer {
	if len(g.cfg.CaptureCommand) == 0 {
		return observe.NopCapturer{}
	}
	return observe.CommandCapturer{
		Command: g.cfg.CaptureCommand,
		Quality: g.cfg.ScreenshotQuality,
	}
}

// clipboardWriter returns nil when the system clipboard is unavailable.
func (g *Game) clipboardWriter() func(string) {
	if err := clipboard.Init(); err != nil {
		g.logger.Warn("clipboard unavailable", "err", err)
		return nil
	}
	return func(s string) {
		clipboard.Write(clipboard.FmtText, []byte(s))
		g.logger.Debug("reply copied", "len", len(s))
	}
}

func (g *Game) saveConfig() {
	if err := g.cfg.Save(g.opts.ConfigPath); err != nil {
		g.logger.Warn("saving config", "err", err)
	}
}
