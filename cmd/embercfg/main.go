// Command embercfg writes and checks ember scenario files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"ember/app"
	"ember/hal"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Scenario file to read (check and dump modes).")
		outPath = flag.String("out", "", "File to write (init and dump modes, default stdout).")
		mode    = flag.String("mode", "check", "init|check|dump.")
		force   = flag.Bool("f", false, "Overwrite an existing -out file.")
	)
	flag.Parse()

	switch strings.ToLower(*mode) {
	case "init":
		if err := writeScenario(*outPath, app.DefaultConfig(), *force); err != nil {
			fatalf("init: %v", err)
		}
	case "check":
		if *inPath == "" {
			fatalf("usage: embercfg -mode check -in scenario.toml")
		}
		cfg, err := app.LoadConfig(*inPath)
		if err != nil {
			fatalf("check: %v", err)
		}
		fmt.Println(summary(cfg))
	case "dump":
		if *inPath == "" {
			fatalf("usage: embercfg -mode dump -in scenario.toml [-out full.toml]")
		}
		cfg, err := app.LoadConfig(*inPath)
		if err != nil {
			fatalf("dump: %v", err)
		}
		if err := writeScenario(*outPath, cfg, *force); err != nil {
			fatalf("dump: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// writeScenario encodes cfg to path, or to stdout when path is empty.
func writeScenario(path string, cfg app.Config, force bool) error {
	if path == "" {
		return app.WriteConfig(os.Stdout, cfg)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := app.WriteConfig(bw, cfg); err != nil {
		out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func summary(cfg app.Config) string {
	inputs := len(cfg.Buttons)
	if cfg.Expander {
		inputs += hal.ExpanderLines
	}
	blink := "forever"
	if cfg.BlinkIterations > 0 {
		blink = fmt.Sprintf("%d times", cfg.BlinkIterations)
	}
	return fmt.Sprintf("ok: %d inputs, poll %s, debounce %s, blink %s %s, sample %s into %d slots",
		inputs, cfg.Poll, cfg.Debounce, cfg.Blink, blink, cfg.Sample, cfg.QueueDepth)
}
