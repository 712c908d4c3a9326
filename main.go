package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/ifs-editor/internal/bridge"
	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/frame"
	"github.com/iburimskiy/ifs-editor/internal/game"
	"github.com/iburimskiy/ifs-editor/internal/logger"
	"github.com/iburimskiy/ifs-editor/internal/metrics"
	"github.com/iburimskiy/ifs-editor/internal/render"
)

func main() {
	configPath := flag.String("config", "", "config file to open at startup")
	async := flag.Bool("async", false, "run file dialogs in the background")
	target := flag.String("target", "copy", "keyframe 1 after loading a config without target_transforms: copy or preset")
	randomizeTarget := flag.Bool("randomize-target", false, "randomize resamples every keyframe")
	seed := flag.Uint64("seed", 1, "seed for the renderer and randomize")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flag.Parse()

	logger.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(*logLevel),
	})))
	log := logger.Logger()

	policy, err := frame.ParseTargetPolicy(*target)
	if err != nil {
		log.Error("bad flag", "err", err)
		os.Exit(2)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error("metrics server stopped", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := bridge.Direct
	if *async {
		mode = bridge.Deferred
	}
	// ebiten ticks continuously, so deferred payloads need no redraw hook.
	b := bridge.New(mode, bridge.ZenityPicker{}, nil)
	defer b.Wait()

	ctl := frame.NewController(&render.Chaos{Seed: *seed}, b, frame.Options{
		TargetPolicy:    policy,
		RandomizeTarget: *randomizeTarget,
		Seed:            *seed,
	})
	session := frame.NewSession()
	if *configPath != "" {
		cfg, err := b.LoadFile(*configPath)
		if err != nil {
			log.Error("load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		ctl.Apply(session, cfg)
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("IFS editor - Tab: select, arrows: edit, G: settings, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	g := game.New(ctx, ctl, session)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("editor stopped", "err", err)
		os.Exit(1)
	}
}
