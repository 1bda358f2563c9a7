package model

import (
	"fmt"
	"strings"
	"time"
)

// Config holds everything needed to talk to one HomeWizard.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`

	Timeouts        TimeoutConfig        `yaml:"timeouts"`
	UpdateIntervals UpdateIntervalConfig `yaml:"update_interval"`

	// StatusMaxAgeMillis is how long a /get-status body is shared between
	// managers refreshing close together.
	StatusMaxAgeMillis int `yaml:"status_max_age_ms"`

	Logging LoggingConfig `yaml:"logging"`
	Hue     HueConfig     `yaml:"hue"`
}

type TimeoutConfig struct {
	ConnectMillis int `yaml:"connect_ms"`
	ReadMillis    int `yaml:"read_ms"`
}

// UpdateIntervalConfig holds per-kind status refresh intervals in
// milliseconds. -1 disables periodic status refresh for that kind.
type UpdateIntervalConfig struct {
	Switch           int `yaml:"switch"`
	Sensor           int `yaml:"sensor"`
	Thermometer      int `yaml:"thermometer"`
	Scene            int `yaml:"scene"`
	Timer            int `yaml:"timer"`
	Camera           int `yaml:"camera"`
	ThermoGraphDay   int `yaml:"thermometer_graph_day"`
	ThermoGraphOther int `yaml:"thermometer_graph_other"`
}

// HueConfig tunes how switches are presented as Hue lights.
type HueConfig struct {
	// BrightnessFormula maps a dimmer level x (0-100) to a Hue brightness
	// (0-254), e.g. "x * 2.54". Empty uses the linear default.
	BrightnessFormula string `yaml:"brightness_formula"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings a HomeWizard works with out of the box.
func DefaultConfig() *Config {
	return &Config{
		Port: 80,
		Timeouts: TimeoutConfig{
			ConnectMillis: 5000,
			ReadMillis:    5000,
		},
		UpdateIntervals: UpdateIntervalConfig{
			Switch:           2000,
			Sensor:           3000,
			Thermometer:      22000,
			Scene:            -1,
			Timer:            -1,
			Camera:           -1,
			ThermoGraphDay:   600000,
			ThermoGraphOther: 3600000,
		},
		StatusMaxAgeMillis: 1000,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	var errs []string
	if c.Host == "" {
		errs = append(errs, "host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}
	if c.Password == "" {
		errs = append(errs, "password is required")
	}
	if c.StatusMaxAgeMillis < 0 {
		errs = append(errs, "status_max_age_ms must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrNotConfigured, strings.Join(errs, "; "))
	}
	return nil
}

// BaseURL is http://<host>:<port>/<password>; request paths are appended verbatim.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d/%s", c.Host, c.Port, c.Password)
}

// Interval converts a millisecond setting. Negative values stay negative so
// they keep meaning "disabled".
func Interval(millis int) time.Duration {
	if millis < 0 {
		return -1
	}
	return time.Duration(millis) * time.Millisecond
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Timeouts.ConnectMillis) * time.Millisecond
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.ReadMillis) * time.Millisecond
}

func (c *Config) StatusMaxAge() time.Duration {
	return time.Duration(c.StatusMaxAgeMillis) * time.Millisecond
}
