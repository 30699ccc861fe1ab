package main

import (
	"path/filepath"
	"time"

	"github.com/milk9111/deskpet/config"
	"github.com/milk9111/deskpet/ecs"
	"github.com/milk9111/deskpet/ecs/entity"
	"github.com/milk9111/deskpet/prefabs"
)

const exportFile = "chat_export.txt"

// do applies a hotkey action. Settings the user changes this way are saved
// straight away.
func (g *Game) do(a Action) {
	g.logger.Debug("hotkey", "action", a)
	switch a {
	case ActionPause:
		paused := g.chat.TogglePause()
		g.logger.Info("pet paused", "paused", paused)
	case ActionChat:
		g.chat.Toggle()
	case ActionFollow:
		g.cfg.FollowMouse = !g.cfg.FollowMouse
		g.machine.SetFollowMouse(g.cfg.FollowMouse)
		g.saveConfig()
	case ActionClickThrough:
		g.cfg.ClickThrough = !g.cfg.ClickThrough
		entity.SetClickThrough(g.world, g.pet, g.cfg.ClickThrough)
		g.saveConfig()
	case ActionScale:
		g.cfg.NextScale()
		g.reloadSprites()
		g.saveConfig()
	case ActionTransparency:
		entity.SetAlpha(g.world, g.pet, g.cfg.NextTransparency())
		g.saveConfig()
	case ActionObserve:
		g.cfg.EnableObservation = !g.cfg.EnableObservation
		if g.cfg.EnableObservation {
			g.observer.Start()
		} else {
			g.observer.Stop()
		}
		g.logger.Info("screen observation", "enabled", g.cfg.EnableObservation)
		g.saveConfig()
	case ActionHistory:
		g.chat.Open()
		g.chat.Say(g.history.Summary(g.voice.Name()))
	case ActionExport:
		path := config.Resolve(g.opts.ConfigPath, exportFile)
		if err := g.history.Export(path, g.voice.Name(), time.Now()); err != nil {
			g.logger.Warn("exporting chat", "err", err)
			return
		}
		g.logger.Info("chat exported", "path", path, "entries", g.history.Len())
	case ActionQuit:
		g.quit = true
	}
}

func (g *Game) reloadSprites() {
	sprites := g.loadSprites()
	size := sprites.Size()
	entity.SetSets(g.world, g.pet, entity.FrameSets(sprites), size.X, size.Y)
	g.logger.Info("pet resized", "scale", g.cfg.Scale(), "w", size.X, "h", size.Y)
}

// applyConfig brings the running pet in line with next, which came from
// the config file changing on disk. AI endpoint settings take effect on the
// next start.
func (g *Game) applyConfig(next config.Config) {
	prev := g.cfg
	if g.opts.FeedAddr != "" {
		next.FeedAddr = g.opts.FeedAddr
	}
	g.cfg = next

	if next.FollowMouse != prev.FollowMouse {
		g.machine.SetFollowMouse(next.FollowMouse)
	}
	if next.ClickThrough != prev.ClickThrough {
		entity.SetClickThrough(g.world, g.pet, next.ClickThrough)
	}
	if next.Alpha() != prev.Alpha() {
		entity.SetAlpha(g.world, g.pet, next.Alpha())
	}
	if next.Scale() != prev.Scale() || next.SpriteDir != prev.SpriteDir {
		g.reloadSprites()
	}
	if next.PetName != prev.PetName && next.PetName != "" {
		g.voice.SetName(next.PetName)
	}

	if next.ObservePeriod() != prev.ObservePeriod() {
		g.observer.SetInterval(next.ObservePeriod())
	}
	g.observer.SetOnlyWhenIdle(next.OnlyObserveWhenIdle)
	switch {
	case next.EnableObservation && !g.observer.Running():
		g.observer.Start()
	case !next.EnableObservation && g.observer.Running():
		g.observer.Stop()
	}
}

func (g *Game) reloadSpec() {
	spec, err := prefabs.LoadPetSpec(prefabs.PetFile)
	if err != nil {
		g.logger.Warn("pet prefab reload", "err", err)
		return
	}
	g.spec = spec
	g.machine.SetParams(spec.Motion)
	if g.cfg.PetName == "" {
		g.voice.SetName(spec.Name)
	}
	g.reloadVoice()
}

func (g *Game) reloadVoice() {
	src, err := prefabs.LoadScript(g.spec.Voice)
	if err == nil {
		err = g.voice.Reload(src)
	}
	if err != nil {
		g.logger.Warn("voice script reload", "err", err)
		return
	}
	g.logger.Info("voice script reloaded", "script", g.spec.Voice)
}

// watch follows the config file and the prefab directory. Changes are
// handled on the loop.
func (g *Game) watch() {
	cfgDir := filepath.Dir(g.opts.ConfigPath)
	w, err := prefabs.NewWatcher(cfgDir, prefabs.DiskRoot(), filepath.Join(prefabs.DiskRoot(), "scripts"))
	if err != nil {
		g.logger.Warn("hot reload disabled", "err", err)
		return
	}
	g.logger.Debug("watching", "dirs", w.Watched())

	cfgPath := filepath.Clean(g.opts.ConfigPath)
	g.group.Go(func() error {
		return w.Run(g.ctx, func(path string) {
			g.sched.Post(func(*ecs.World) { g.reload(cfgPath, filepath.Clean(path)) })
		}, func(err error) {
			g.logger.Warn("watcher", "err", err)
		})
	})
}

func (g *Game) reload(cfgPath, path string) {
	g.logger.Debug("file changed", "path", path)
	switch {
	case path == cfgPath:
		cfg, err := config.Load(cfgPath)
		if err != nil {
			g.logger.Warn("config reload", "err", err)
			return
		}
		g.applyConfig(cfg)
	case prefabs.IsScript(path):
		g.reloadVoice()
	case filepath.Base(path) == prefabs.PetFile:
		g.reloadSpec()
	}
}
