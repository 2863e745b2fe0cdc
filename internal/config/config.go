// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/iwvelando/chip-economics/pkg/constants"
	"github.com/iwvelando/chip-economics/pkg/economics"
	"github.com/iwvelando/chip-economics/pkg/sweep"
	"github.com/iwvelando/chip-economics/pkg/validation"
)

// Configuration holds all configuration for chip-economics.
type Configuration struct {
	Common    Common        `mapstructure:"common" yaml:"common"`
	Scenarios []Scenario    `mapstructure:"scenarios" yaml:"scenarios"`
	Sweeps    sweep.Specs   `mapstructure:"sweeps" yaml:"sweeps"`
	Logging   LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, yaml
}

// Common holds the parameters shared by all scenarios.
type Common struct {
	Parameters economics.EconomicParameters `mapstructure:"parameters" yaml:"parameters"`
}

// Scenario is a named set of overrides on top of the common parameters.
type Scenario struct {
	Name      string                 `mapstructure:"name" yaml:"name"`
	Active    bool                   `mapstructure:"active" yaml:"active"`
	Overrides map[string]interface{} `mapstructure:"overrides" yaml:"overrides,omitempty"`

	// Parameters are the common parameters with Overrides applied.
	Parameters economics.EconomicParameters `mapstructure:"-" yaml:"-"`
}

// Default returns a configuration holding the reference parameters, the
// default sweeps and a single active base scenario.
func Default() Configuration {
	conf := Configuration{
		Common:  Common{Parameters: economics.DefaultParameters()},
		Sweeps:  sweep.DefaultSpecs(),
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
	}
	// The decoder merges slices element-wise into existing ones, so decoded
	// configurations start with empty mode lists, which select every mode.
	conf.Sweeps.Distance.Modes = nil
	conf.Sweeps.Breakdown.Modes = nil
	conf.Sweeps.FarmMargin.Modes = nil
	return conf
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML (or JSON) configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	configuration := Default()
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Resolve(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Resolve validates the common parameters and computes every scenario's
// effective parameters. Inactive scenarios are resolved too so that typos
// surface early.
func (c *Configuration) Resolve() error {
	if err := c.Common.Parameters.Validate(); err != nil {
		return fmt.Errorf("common parameters: %w", err)
	}

	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		params, err := ApplyOverrides(c.Common.Parameters, s.Overrides)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if err := params.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		s.Parameters = params
	}
	return nil
}

// ActiveScenarios returns the active scenarios in configuration order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// FindScenario returns the scenario with the given name. An empty name
// selects the first active scenario.
func (c *Configuration) FindScenario(name string) (Scenario, error) {
	if name == "" {
		active := c.ActiveScenarios()
		if len(active) == 0 {
			return Scenario{}, fmt.Errorf("no active scenario")
		}
		return active[0], nil
	}
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("scenario %q not found", name)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{Common: c.Common.Parameters}
	for _, s := range c.Scenarios {
		validator.Scenarios = append(validator.Scenarios, validation.ScenarioConfig{
			Name:       s.Name,
			Active:     s.Active,
			Parameters: s.Parameters,
		})
	}
	warnings := validator.ValidateAll()

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		warnings = append(warnings, err.Error())
	}
	return warnings
}
