package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/lysyi3m/telelinker/app/cfg"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogging(appCfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, appCfg)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, appCfg *cfg.Cfg) int {
	switch appCfg.Command {
	case "setup":
		return runSetup(appCfg, os.Stdout)
	case "login":
		return runLogin(appCfg, os.Stdout)
	case "fetch":
		return runFetch(ctx, appCfg, os.Stdout)
	case "serve":
		return runServe(ctx, appCfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", appCfg.Command)
		return 1
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.Debug("Debug logging enabled", "version", cfg.GetVersion())
}
