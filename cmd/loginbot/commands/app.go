package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loginbot/internal/components/chrono"
	"loginbot/internal/components/telemetry"
	"loginbot/internal/config"
	"loginbot/internal/configutil"
	"loginbot/internal/cursor"
	"loginbot/internal/dispatch"
	"loginbot/internal/notify"
	"loginbot/internal/panel"
)

const report_app_telegram = "app.telegram"

// app is everything a command needs, built from the config file and environment.
type app struct {
	cfg        config.Config
	source     config.Source
	time       chrono.StandardTime
	formatter  notify.Formatter
	engine     *panel.Engine
	dispatcher *dispatch.Dispatcher
	tel        telemetry.API

	db        *sql.DB
	telemetry telemetry.Telemetry
}

func readConfig() (config.Config, error) {
	err := configutil.LoadDotenv(envFiles...)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := configutil.ReadConfig[config.Config](configPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults and the environment", "path", configPath)
		err = nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg = cfg.WithDefaults()
	if verbose {
		cfg.Verbose = true
	}
	return cfg, cfg.Validate()
}

func newNotifierFactory(cfg config.Config, tel telemetry.API) dispatch.NotifierFactory {
	return func(ctx context.Context, target notify.Target) notify.Notifier {
		// without a target nothing is sent, email included
		if !target.Valid() {
			return notify.Nop{}
		}
		var sinks notify.Fanout
		tg, err := notify.NewTelegram(target, tel)
		if err != nil {
			tel.ReportWarning(report_app_telegram, err)
		} else {
			sinks = append(sinks, tg)
		}
		if cfg.Email.Enabled() {
			sinks = append(sinks, notify.NewEmail(cfg.Email, tel))
		}
		if len(sinks) == 0 {
			return notify.Nop{}
		}
		return sinks
	}
}

func setupApp(ctx context.Context) (app, error) {
	cfg, err := readConfig()
	if err != nil {
		return app{}, err
	}
	telemetry.InitSlog(cfg.Verbose)

	tel := telemetry.SlogAPI{}
	otelProviders, err := telemetry.Setup(ctx, "loginbot", cfg.Telemetry)
	if err != nil {
		return app{}, fmt.Errorf("setup telemetry: %w", err)
	}

	clock, err := chrono.NewStandardTime(cfg.Timezone)
	if err != nil {
		return app{}, fmt.Errorf("timezone: %w", err)
	}
	display, err := chrono.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return app{}, fmt.Errorf("display timezone: %w", err)
	}

	db, err := cfg.Store.OpenDB()
	if err != nil {
		return app{}, fmt.Errorf("open store: %w", err)
	}
	store, err := cursor.NewSQLStore(db)
	if err != nil {
		db.Close()
		return app{}, fmt.Errorf("migrate store: %w", err)
	}

	minDelay, maxDelay := cfg.DelayRange()
	engine := panel.NewEngine(tel, panel.Options{
		Evasion: panel.RandomEvasion{
			MinDelay: minDelay,
			MaxDelay: maxDelay,
		},
		Time:             clock,
		Timeout:          cfg.RequestTimeout(),
		CloudflareBypass: cfg.CloudflareBypass,
	})

	formatter := notify.Formatter{Display: display}
	source := config.NewLoader(configPath)
	dispatcher := dispatch.NewDispatcher(tel, dispatch.Options{
		BatchSize: cfg.BatchSize,
		Engine:    engine,
		Tracker:   cursor.NewTracker(store, tel),
		Source:    source,
		Notifiers: newNotifierFactory(cfg, tel),
		Formatter: formatter,
		Time:      clock,
	})

	return app{
		cfg:        cfg,
		source:     source,
		time:       clock,
		formatter:  formatter,
		engine:     engine,
		dispatcher: dispatcher,
		tel:        tel,
		db:         db,
		telemetry:  otelProviders,
	}, nil
}

func (a app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(
		a.telemetry.Shutdown(ctx),
		a.db.Close(),
	)
}
