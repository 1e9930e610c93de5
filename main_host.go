//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ember/app"
	"ember/hal"
	"ember/internal/buildinfo"
)

func main() {
	var (
		hcfg     hal.HeadlessConfig
		cfgPath  string
		logLevel string
		version  bool
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&hcfg.Frames, "frames", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.StringVar(&cfgPath, "config", "", "TOML scenario file.")
	flag.StringVar(&logLevel, "log-level", "", "Override the scenario log level.")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg := app.DefaultConfig()
	if cfgPath != "" {
		var err error
		if cfg, err = app.LoadConfig(cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if hcfg.Enabled {
		cfg.Console = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	newApp := func(ctx context.Context, h hal.HAL) (func() error, error) {
		return app.Start(ctx, h, cfg)
	}

	var err error
	if hcfg.Enabled {
		err = hal.RunHeadless(ctx, newApp, hcfg)
	} else {
		err = hal.RunWindow(ctx, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
