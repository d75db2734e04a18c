package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lysyi3m/telelinker/app/cfg"
	"github.com/lysyi3m/telelinker/app/export"
	"github.com/lysyi3m/telelinker/app/pipeline"
	"github.com/lysyi3m/telelinker/app/scraper"
	"github.com/lysyi3m/telelinker/app/telegram"
)

func runSetup(appCfg *cfg.Cfg, stdout io.Writer) int {
	settings := cfg.DefaultSettings()
	settings.Telegram = cfg.TelegramSettings{
		APIID:       appCfg.Setup.APIID,
		APIHash:     appCfg.Setup.APIHash,
		SessionName: appCfg.Setup.SessionName,
		ExportsDir:  appCfg.Setup.ExportsDir,
	}

	if err := cfg.SaveSettings(appCfg.ConfigPath, &settings); err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "✅ Configuration saved to %s\n", appCfg.ConfigPath)
	return 0
}

func runLogin(appCfg *cfg.Cfg, stdout io.Writer) int {
	settings, ok := loadSettings(appCfg, stdout)
	if !ok {
		return 1
	}

	session, err := telegram.Login(settings.Telegram.SessionName, settings.Telegram.APIID, settings.Telegram.ExportsDir)
	if err != nil {
		fmt.Fprintf(stdout, "❌ Login failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "✅ Session saved to %s (exports: %s)\n",
		telegram.SessionPath(settings.Telegram.SessionName), session.ExportsDir)
	return 0
}

func runFetch(ctx context.Context, appCfg *cfg.Cfg, stdout io.Writer) int {
	settings, ok := loadSettings(appCfg, stdout)
	if !ok {
		return 1
	}

	session, err := telegram.LoadSession(settings.Telegram.SessionName)
	if errors.Is(err, telegram.ErrSessionNotFound) {
		fmt.Fprintln(stdout, "❌ Session not found. Run 'telelinker login' to authenticate.")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return 1
	}

	groups := []string{appCfg.Fetch.Group}
	if appCfg.Fetch.GroupsFile != "" {
		if groups, err = telegram.LoadGroups(appCfg.Fetch.GroupsFile); err != nil {
			fmt.Fprintf(stdout, "❌ %v\n", err)
			return 1
		}
	}

	source, err := telegram.NewExportSource(session.ExportsDir)
	if err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return 1
	}
	defer source.Close()

	writer, err := export.Open(export.Format(appCfg.Fetch.Format), appCfg.Fetch.Out)
	if errors.Is(err, export.ErrUnsupportedFormat) {
		source.Close()
		fmt.Fprintln(stdout, "Format not supported.")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return 1
	}

	registry := scraper.NewDefaultRegistry(scraperOptions(settings))
	runner := pipeline.NewRunner(source, registry, writer, stdout)

	total, runErr := runner.Run(ctx, groups, appCfg.Fetch.Limit)
	closeErr := writer.Close()
	source.Close()

	if err := errors.Join(runErr, closeErr); err != nil {
		slog.Error("Fetch failed", "rows", total, "error", err)
		fmt.Fprintf(stdout, "❌ Fetch failed after %d posts: %v\n", total, err)
		return 1
	}

	fmt.Fprintf(stdout, "✅ Export complete: %d posts saved to %s\n", total, writer.Describe())
	return 0
}

func loadSettings(appCfg *cfg.Cfg, stdout io.Writer) (*cfg.Settings, bool) {
	settings, err := cfg.LoadSettings(appCfg.ConfigPath)
	if errors.Is(err, cfg.ErrConfigNotFound) {
		fmt.Fprintln(stdout, "❌ Config file not found. Run 'telelinker setup' first.")
		return nil, false
	}
	if err != nil {
		fmt.Fprintf(stdout, "❌ %v\n", err)
		return nil, false
	}
	return settings, true
}

func scraperOptions(settings *cfg.Settings) scraper.Options {
	ext := settings.Extractors
	return scraper.Options{
		UserAgent:         ext.UserAgent,
		Timeout:           time.Duration(ext.Timeout) * time.Second,
		RequestsPerSecond: ext.RequestsPerSecond,
		MaxRetries:        ext.MaxRetries,
		YouTubeAPIKey:     ext.YouTube.APIKey,
		YouTubeAPIBase:    ext.YouTube.APIBase,
		YtDlpPath:         ext.YouTube.YtDlpPath,
		DevToAPIBase:      ext.DevTo.APIBase,
		MediumFeedBase:    ext.Medium.APIBase,
	}
}
