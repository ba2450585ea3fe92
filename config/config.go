package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigExperimentFile  = "experiment-file"
	ConfigConfidenceLevel = "confidence-level"
	ConfigLocale          = "locale"
	ConfigHistogramBins   = "histogram-bins"
	ConfigSimulationDraws = "simulation-draws"
	ConfigSeed            = "seed"
	ConfigWidth           = "width"
)

type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigExperimentFile, "")
	v.SetDefault(ConfigConfidenceLevel, 0.95)
	v.SetDefault(ConfigLocale, "en")
	v.SetDefault(ConfigHistogramBins, 15)
	v.SetDefault(ConfigSimulationDraws, 10000)
	v.SetDefault(ConfigSeed, 42)
	v.SetDefault(ConfigWidth, 60)
}

// DefaultConfig returns a config with only the defaults set; it reads no
// environment and no flags.
func DefaultConfig() Config {
	c := Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}

// Load reads settings from, in increasing priority, the defaults,
// SPLITTEST_* environment variables, and the given command-line args.
// Positional args left over after flag parsing are returned.
func (c *Config) Load(args []string) ([]string, error) {
	c.Viper = *viper.New()
	setDefaults(&c.Viper)

	c.SetEnvPrefix("splittest")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	fs := pflag.NewFlagSet("splittest", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.StringP(ConfigExperimentFile, "f", "", "YAML file describing the experiment; the built-in experiment is used if empty. "+
		"A ./ path missing from the working directory is looked up next to the executable")
	fs.Float64(ConfigConfidenceLevel, 0.95, "confidence level for the conversion-rate intervals")
	fs.String(ConfigLocale, "en", "language tag used to format numbers in the report, e.g. en, ru")
	fs.Int(ConfigHistogramBins, 15, "number of bins in the simulated-conversions histogram")
	fs.Int(ConfigSimulationDraws, 10000, "number of simulated experiment repetitions per group; 0 disables the simulation")
	fs.Uint64(ConfigSeed, 42, "seed for the simulation")
	fs.Int(ConfigWidth, 60, "width of the histogram bars")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}
	return fs.Args(), c.Validate()
}

func (c *Config) Validate() error {
	lvl := c.GetFloat64(ConfigConfidenceLevel)
	if !(lvl > 0 && lvl < 1) {
		return errors.New("confidence-level must be in (0, 1)")
	}
	if c.GetInt(ConfigHistogramBins) <= 0 {
		return errors.New("histogram-bins must be positive")
	}
	if c.GetInt(ConfigSimulationDraws) < 0 {
		return errors.New("simulation-draws must not be negative")
	}
	if c.GetInt(ConfigWidth) <= 0 {
		return errors.New("width must be positive")
	}
	return nil
}

// AdjustRelativePaths resolves a "./" experiment file against basepath, the
// directory of the executable, but only when no such file exists relative
// to the working directory. Other relative paths are left alone.
func (c *Config) AdjustRelativePaths(basepath string) {
	p := c.GetString(ConfigExperimentFile)
	if !strings.HasPrefix(p, "./") {
		return
	}
	if _, err := os.Stat(p); err == nil {
		return
	}
	c.Set(ConfigExperimentFile, filepath.Join(basepath, p))
}
