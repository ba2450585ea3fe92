package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/domino14/splittest/config"
	"github.com/domino14/splittest/experiment"
	"github.com/domino14/splittest/report"
)

var (
	GitVersion string
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func reportOptions(cfg *config.Config) (report.Options, error) {
	tag, err := language.Parse(cfg.GetString(config.ConfigLocale))
	if err != nil {
		return report.Options{}, fmt.Errorf("locale: %w", err)
	}
	return report.Options{
		ConfidenceLevel: cfg.GetFloat64(config.ConfigConfidenceLevel),
		Locale:          tag,
		HistogramBins:   cfg.GetInt(config.ConfigHistogramBins),
		SimulationDraws: cfg.GetInt(config.ConfigSimulationDraws),
		Seed:            cfg.GetUint64(config.ConfigSeed),
		Width:           cfg.GetInt(config.ConfigWidth),
	}, nil
}

func loadExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	path := cfg.GetString(config.ConfigExperimentFile)
	if path == "" {
		log.Debug().Msg("using built-in experiment")
		return experiment.Default(), nil
	}
	log.Debug().Str("path", path).Msg("loading experiment")
	return experiment.Load(path)
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	args, err := cfg.Load(os.Args[1:])
	// Logging is not configured until the settings are read.
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))
	log.Debug().Str("version", GitVersion).Interface("settings", cfg.AllSettings()).Msg("loaded-config")
	cfg.AdjustRelativePaths(exPath)

	e, err := loadExperiment(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load experiment")
	}

	if len(args) > 0 {
		switch args[0] {
		case "example":
			out, err := e.Marshal()
			if err != nil {
				log.Fatal().Err(err).Msg("could not encode experiment")
			}
			os.Stdout.Write(out)
			return
		case "report":
		default:
			log.Fatal().Str("command", args[0]).Msg("unknown command; use report or example")
		}
	}

	opts, err := reportOptions(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad settings")
	}
	res, err := report.Evaluate(e, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("could not evaluate experiment")
	}
	if err := report.Render(os.Stdout, res); err != nil {
		log.Fatal().Err(err).Msg("could not render report")
	}
}
