package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	hwhttp "homewizard-client/internal/adapters/input/http"
	"homewizard-client/internal/adapters/output/homewizard"
	"homewizard-client/internal/adapters/output/persistence"
	"homewizard-client/internal/domain/model"
	"homewizard-client/internal/domain/service"
	"homewizard-client/internal/domain/translator"
	"homewizard-client/internal/logging"
	"homewizard-client/internal/ports"
)

const usage = `Usage: homewizard [flags] <command> [args]

Commands:
  switches | sensors | thermometers | scenes | timers | cameras
  scene <id>               codes, switches and timers of one scene
  sensor-log <id>          event log of one sensor
  history <id> <span>      thermometer history (day, week, month, year)
  version                  firmware version
  watch                    poll switches, sensors and thermometers until interrupted
  serve                    expose entities over HTTP, switches also as Hue lights
  init                     write a config file with the default settings (see -force)

Flags:
`

func main() {
	configPath := flag.String("config", "homewizard.yaml", "Path to the YAML config file")
	format := flag.String("format", "text", "Output format: text, json or hue (switches only)")
	every := flag.Duration("every", 2*time.Second, "Polling period for watch")
	listen := flag.String("listen", ":8080", "Listen address for serve")
	force := flag.Bool("force", false, "Let init overwrite an existing config file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if env := os.Getenv("HOMEWIZARD_CONFIG"); env != "" {
		*configPath = env
	}
	configRepo := persistence.NewYAMLConfigRepository(*configPath)

	if flag.Arg(0) == "init" {
		if err := initConfig(ctx, configRepo, *configPath, *force); err != nil {
			fmt.Fprintf(os.Stderr, "writing config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := configRepo.Get(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	transport := homewizard.NewHTTPTransport(cfg.ConnectTimeout(), cfg.ReadTimeout())
	conn := homewizard.NewConnection(cfg.BaseURL(), transport,
		homewizard.WithCache(homewizard.NewResponseCache(time.Now)),
		homewizard.WithLogger(logger),
	)
	sys := service.NewSystem(conn, cfg, logger)

	translatorFactory := translator.NewFactory(cfg.Hue.BrightnessFormula)

	if flag.Arg(0) == "serve" {
		if err := hwhttp.NewServer(sys, translatorFactory, logger).ListenAndServe(ctx, *listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			os.Exit(1)
		}
		return
	}

	out := &printer{
		w:      os.Stdout,
		format: *format,
		hue:    translatorFactory,
	}

	if err := run(ctx, sys, out, *every, logger, flag.Args()); err != nil {
		logger.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, sys *service.System, out *printer, every time.Duration, logger zerolog.Logger, args []string) error {
	switch args[0] {
	case "switches":
		switches, err := sys.Switches.All(ctx)
		if err != nil {
			return err
		}
		return out.switches(switches)
	case "sensors":
		sensors, err := sys.Sensors.All(ctx)
		if err != nil {
			return err
		}
		return out.sensors(sensors)
	case "thermometers":
		thermometers, err := sys.Thermometers.All(ctx)
		if err != nil {
			return err
		}
		return out.thermometers(thermometers)
	case "scenes":
		scenes, err := sys.Scenes.All(ctx)
		if err != nil {
			return err
		}
		return out.scenes(scenes)
	case "timers":
		timers, err := sys.Timers.All(ctx)
		if err != nil {
			return err
		}
		return out.timers(timers)
	case "cameras":
		cameras, err := sys.Cameras.All(ctx)
		if err != nil {
			return err
		}
		return out.cameras(cameras)
	case "scene":
		id, err := intArg(args, 1)
		if err != nil {
			return err
		}
		detail, err := sys.SceneDetail(ctx, id)
		if err != nil {
			return err
		}
		return out.sceneDetail(detail)
	case "sensor-log":
		id, err := intArg(args, 1)
		if err != nil {
			return err
		}
		events, err := sys.SensorLog(ctx, id)
		if err != nil {
			return err
		}
		return out.sensorLog(events)
	case "history":
		id, err := intArg(args, 1)
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return errors.New("history needs a time span")
		}
		span, err := model.ParseTimeSpan(args[2])
		if err != nil {
			return err
		}
		history, err := sys.ThermometerHistory(ctx, id, span)
		if err != nil {
			return err
		}
		return out.history(history)
	case "version":
		v, err := sys.Version(ctx)
		if err != nil {
			return err
		}
		return out.value("version", v)
	case "watch":
		return watch(ctx, sys, out, every, logger)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

// initConfig writes the default settings to path. An existing file is only
// replaced when force is set.
func initConfig(ctx context.Context, repo ports.ConfigRepository, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use -force to overwrite it", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return repo.Save(ctx, model.DefaultConfig())
}

func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%s needs an id", args[0])
	}
	id, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", args[i], err)
	}
	return id, nil
}

// watch polls at a fixed rate. The managers decide on their own whether a
// tick needs a status call, so a short period does not flood the device.
func watch(ctx context.Context, sys *service.System, out *printer, every time.Duration, logger zerolog.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := pollOnce(ctx, sys, out); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn().Err(err).Msg("poll failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func pollOnce(ctx context.Context, sys *service.System, out *printer) error {
	switches, err := sys.Switches.All(ctx)
	if err != nil {
		return err
	}
	sensors, err := sys.Sensors.All(ctx)
	if err != nil {
		return err
	}
	thermometers, err := sys.Thermometers.All(ctx)
	if err != nil {
		return err
	}
	return out.snapshot(time.Now(), switches, sensors, thermometers)
}
