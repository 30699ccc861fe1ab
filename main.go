package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/deskpet/config"
	"github.com/milk9111/deskpet/prefabs"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	prefabDir := flag.String("prefab", "prefabs", "directory whose pet.yaml and scripts/ override the built-in prefab")
	debug := flag.Bool("debug", false, "enable debug logging and the motion overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	feedAddr := flag.String("feed-addr", "", "serve the motion event feed on this address, e.g. localhost:8777")
	seed := flag.Uint64("seed", 0, "seed for the pet's random movement (0 = random)")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	prefabs.SetDiskRoot(*prefabDir)

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	game, err := NewGame(ctx, group, Options{
		ConfigPath: *configPath,
		PrefabDir:  *prefabDir,
		Debug:      *debug,
		FeedAddr:   *feedAddr,
		Seed:       *seed,
	}, logger)
	if err != nil {
		log.Fatal(err)
	}
	game.Start()

	ebiten.SetWindowTitle("deskpet")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(1, 1)

	runErr := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
	})

	cancel()
	if err := group.Wait(); err != nil {
		logger.Warn("worker stopped with error", "err", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
