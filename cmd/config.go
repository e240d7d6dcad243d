package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the content of the configuration file. Keys are the names of the global flags.
type Config struct {
	Holdings    string   `yaml:"holdings"`
	Currency    string   `yaml:"currency"`
	Benchmark   string   `yaml:"benchmark"`
	EODHDAPIKey string   `yaml:"eodhd-api-key"`
	Prices      string   `yaml:"prices"`
	Lookback    int      `yaml:"lookback"`
	RiskFree    *float64 `yaml:"risk-free"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	var c Config
	content, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(content, &c); err != nil {
		return c, fmt.Errorf("invalid configuration %q: %w", path, err)
	}
	return c, nil
}

// values returns the configured values by flag name, unset keys are omitted.
func (c Config) values() map[string]string {
	v := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			v[name] = value
		}
	}
	set("holdings", c.Holdings)
	set("currency", c.Currency)
	set("benchmark", c.Benchmark)
	set("eodhd-api-key", c.EODHDAPIKey)
	set("prices", c.Prices)
	if c.Lookback > 0 {
		v["lookback"] = strconv.Itoa(c.Lookback)
	}
	if c.RiskFree != nil {
		v["risk-free"] = strconv.FormatFloat(*c.RiskFree, 'f', -1, 64)
	}
	return v
}

// Configure reads the configuration file named by the "config" flag, and
// applies it to the flags that were not set on the command line.
//
// A missing configuration file is not an error.
func Configure(flags *flag.FlagSet) error {
	cf := flags.Lookup("config")
	if cf == nil {
		return nil
	}
	c, err := LoadConfig(cf.Value.String())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	explicit := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for name, value := range c.values() {
		if explicit[name] || flags.Lookup(name) == nil {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("configuration key %q: %w", name, err)
		}
	}
	return nil
}
