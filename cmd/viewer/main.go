package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"acupoint-viewer/internal/commands"
	"acupoint-viewer/internal/config"
	"acupoint-viewer/internal/debug"
	"acupoint-viewer/internal/env"
	"acupoint-viewer/internal/graphics"
	"acupoint-viewer/internal/loader"
	"acupoint-viewer/internal/logger"
	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/render"
	"acupoint-viewer/internal/scene"
	"acupoint-viewer/internal/viewer"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	prefs, _ := config.Load(config.Path)
	config.ApplyEnv(&prefs)

	log, logs := logger.New(logger.LogFilePath, logger.ParseLevel(prefs.LogLevel))
	slog.SetDefault(log)

	reg := commands.NewRegistry()
	registerRun(reg, &prefs, log, logs)
	registerPick(reg, &prefs, log)
	registerLandmarks(reg, &prefs, log)
	reg.SetDefault("run")

	if err := reg.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			reg.Usage(os.Stderr)
			os.Exit(2)
		}
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func modelFlags(fs *flag.FlagSet, prefs *config.Prefs) {
	fs.StringVar(&prefs.Model.Source, "model", prefs.Model.Source, "model .obj/.zip path or URL (empty: demo hand)")
	fs.Func("rotate-y", "model rotation about Y in degrees", func(s string) error {
		var v float32
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		prefs.Model.RotateY = v
		return nil
	})
}

func registerRun(reg *commands.Registry, prefs *config.Prefs, log *slog.Logger, logs *logger.Handler) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	modelFlags(fs, prefs)
	fs.StringVar(&prefs.Picking.Backend, "picking", prefs.Picking.Backend, "picking backend: gpu or software")
	fs.BoolVar(&prefs.ShowFPS, "fps", prefs.ShowFPS, "show the FPS counter")
	fs.BoolVar(&prefs.ShowLog, "log", prefs.ShowLog, "show recent log lines")
	reg.Register("run", "open the viewer window (default)", fs, func() error {
		if err := prefs.Validate(); err != nil {
			return err
		}
		return run(*prefs, log, logs)
	})
}

func run(prefs config.Prefs, log *slog.Logger, logs *logger.Handler) error {
	cache := render.NewMeshCache()
	alloc := picking.SoftAllocator
	if prefs.Picking.Backend == config.BackendGPU {
		alloc = render.GPUAllocator(cache)
	}
	ctrl := viewer.New(prefs, alloc, log)
	ctrl.Evict = cache.Forget
	view := render.NewView(cache)
	overlay := debug.New(prefs.ShowFPS)
	var input graphics.Input

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := func() {
		if p := debug.FindFont(debug.FontDirs...); p != "" {
			overlay.SetFont(rl.LoadFont(p))
		}
		ctrl.Watch(loader.New(prefs.Model.RotateY, log).Start(ctx, prefs.Model.Source), prefs.Model.Source)
		log.Info("viewer started", "backend", prefs.Picking.Backend, "model", prefs.Model.Source)
	}
	var status debug.Status
	update := func() {
		input.Poll(ctrl)
		if err := ctrl.Update(); err != nil {
			log.Warn("selection kept", "err", err)
		}
		status.LoadFraction, status.Loading = ctrl.Loading()
		status.LoadedAt = ctrl.LoadFinishedAt()
		status.Selected = status.Selected[:0]
		for _, lm := range ctrl.Selected() {
			status.Selected = append(status.Selected, lm.Name())
		}
		if prefs.ShowLog {
			status.Log = logs.Lines()
		}
	}
	draw := func() {
		view.Draw(render.Frame{
			Root:    ctrl.Root(),
			Camera:  ctrl.Camera(),
			Preview: ctrl.Preview(),
			Grid:    ctrl.GridVisible,
		})
		overlay.Draw(status)
	}
	shutdown := func() {
		ctrl.Close()
		cache.Close()
	}
	graphics.Run(graphics.Window{
		Width:  prefs.Window.Width,
		Height: prefs.Window.Height,
		Title:  prefs.Window.Title,
	}, render.Background, start, update, draw, shutdown)
	return nil
}

func registerPick(reg *commands.Registry, prefs *config.Prefs, log *slog.Logger) {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	modelFlags(fs, prefs)
	fs.IntVar(&prefs.Window.Width, "width", prefs.Window.Width, "viewport width in pixels")
	fs.IntVar(&prefs.Window.Height, "height", prefs.Window.Height, "viewport height in pixels")
	reg.Register("pick", `select landmarks with a lasso given as "x,y x,y ..." pixel samples`, fs, func() error {
		if err := prefs.Validate(); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("pick: want one quoted point list, got %d arguments", fs.NArg())
		}
		pts, err := viewer.ParsePoints(fs.Arg(0))
		if err != nil {
			return err
		}
		selected, err := viewer.Pick(context.Background(), *prefs, pts, log)
		if err != nil {
			return err
		}
		printLandmarks(selected)
		return nil
	})
}

func registerLandmarks(reg *commands.Registry, prefs *config.Prefs, log *slog.Logger) {
	fs := flag.NewFlagSet("landmarks", flag.ContinueOnError)
	modelFlags(fs, prefs)
	reg.Register("landmarks", "list the landmark IDs of a model", fs, func() error {
		root, err := loader.New(prefs.Model.RotateY, log).Load(context.Background(), prefs.Model.Source)
		if err != nil {
			return err
		}
		printLandmarks(scene.AssignLandmarks(root, prefs.Matcher()).All())
		return nil
	})
}

func printLandmarks(list []*scene.Landmark) {
	for _, lm := range list {
		fmt.Printf("%d\t%s\n", lm.ID, lm.Name())
	}
}
