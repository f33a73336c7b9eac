package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the cellconsole.yml structure.
type Config struct {
	Backend       BackendConfig      `yaml:"backend,omitempty" json:"backend,omitempty" jsonschema:"description=Robot cell backend connection"`
	Polling       PollingConfig      `yaml:"polling,omitempty" json:"polling,omitempty" jsonschema:"description=Background job status polling"`
	Notifications NotificationConfig `yaml:"notifications,omitempty" json:"notifications,omitempty" jsonschema:"description=Toast behaviour"`
	Analyze       AnalyzeConfig      `yaml:"analyze,omitempty" json:"analyze,omitempty" jsonschema:"description=Parameters sent with every analysis request"`
	Motion        MotionConfig       `yaml:"motion,omitempty" json:"motion,omitempty" jsonschema:"description=Linear move defaults"`
	Overlay       OverlayConfig      `yaml:"overlay,omitempty" json:"overlay,omitempty" jsonschema:"description=Which annotations the overlay renderer paints"`
	Server        ServerConfig       `yaml:"server,omitempty" json:"server,omitempty" jsonschema:"description=Local state server"`
	UI            UIConfig           `yaml:"ui,omitempty" json:"ui,omitempty" jsonschema:"description=Operator console"`

	// Extensions holds any top-level keys not claimed above, such as
	// "logging". Decode them with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" json:"-"`
}

// BackendConfig describes how to reach the robot cell backend.
type BackendConfig struct {
	// Host is the base URL every endpoint path is joined to.
	Host string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"description=Base URL of the backend (default http://localhost:8000/)"`
	// AnalyzeTimeout bounds the camera/analyze call, the only call with a client-side deadline.
	AnalyzeTimeout string `yaml:"analyze_timeout,omitempty" json:"analyze_timeout,omitempty" jsonschema:"description=Deadline for camera/analyze (Go duration)"`
	// RequestTimeout applies to every other call. Empty leaves the transport default.
	RequestTimeout string  `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty" jsonschema:"description=Deadline for all other calls (Go duration; empty for none)"`
	RateLimit      float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty" jsonschema:"minimum=0,description=Max outbound requests per second (0 = unlimited)"`
	UserAgent      string  `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// PollingConfig controls the job status poller.
type PollingConfig struct {
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty" jsonschema:"description=Delay between status polls (Go duration)"`
}

// NotificationConfig controls toast dismissal.
type NotificationConfig struct {
	DismissAfter string `yaml:"dismiss_after,omitempty" json:"dismiss_after,omitempty" jsonschema:"description=How long a toast stays visible (Go duration)"`
}

// AnalyzeConfig holds the vision thresholds sent to camera/analyze.
type AnalyzeConfig struct {
	WhiteThresh int   `yaml:"white_thresh,omitempty" json:"white_thresh,omitempty" jsonschema:"minimum=0,maximum=255"`
	AutoThresh  *bool `yaml:"auto_thresh,omitempty" json:"auto_thresh,omitempty"`
	EnableEdges *bool `yaml:"enable_edges,omitempty" json:"enable_edges,omitempty"`
}

// MotionConfig holds defaults for robot/moveL.
type MotionConfig struct {
	Simulate bool    `yaml:"simulate,omitempty" json:"simulate,omitempty"`
	ZLift    float64 `yaml:"z_lift,omitempty" json:"z_lift,omitempty" jsonschema:"minimum=0,description=Lift applied before a linear move (mm)"`
}

// OverlayConfig toggles the optional overlay annotations.
type OverlayConfig struct {
	Edges     *bool `yaml:"edges,omitempty" json:"edges,omitempty"`
	Holes     *bool `yaml:"holes,omitempty" json:"holes,omitempty"`
	Labels    *bool `yaml:"labels,omitempty" json:"labels,omitempty"`
	Width     bool  `yaml:"width,omitempty" json:"width,omitempty"`
	Height    bool  `yaml:"height,omitempty" json:"height,omitempty"`
	Area      bool  `yaml:"area,omitempty" json:"area,omitempty"`
	Perimeter bool  `yaml:"perimeter,omitempty" json:"perimeter,omitempty"`
}

// ServerConfig configures the local state server.
type ServerConfig struct {
	Addr    string `yaml:"addr,omitempty" json:"addr,omitempty" jsonschema:"description=Listen address for cellconsole serve"`
	Metrics *bool  `yaml:"metrics,omitempty" json:"metrics,omitempty" jsonschema:"description=Expose /metrics"`
}

// UIConfig configures the operator console.
type UIConfig struct {
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=pick,enum=draw,enum=sort,description=Workflow selected at startup"`
}

// Default values applied by SetDefaults.
const (
	DefaultHost           = "http://localhost:8000/"
	DefaultAnalyzeTimeout = "15s"
	DefaultPollInterval   = "1s"
	DefaultDismissAfter   = "2500ms"
	DefaultWhiteThresh    = 150
	DefaultServerAddr     = "127.0.0.1:8090"
	DefaultUIMode         = "pick"
)

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Backend.Host == "" {
		c.Backend.Host = DefaultHost
	}
	if c.Backend.AnalyzeTimeout == "" {
		c.Backend.AnalyzeTimeout = DefaultAnalyzeTimeout
	}
	if c.Polling.Interval == "" {
		c.Polling.Interval = DefaultPollInterval
	}
	if c.Notifications.DismissAfter == "" {
		c.Notifications.DismissAfter = DefaultDismissAfter
	}
	if c.Analyze.WhiteThresh == 0 {
		c.Analyze.WhiteThresh = DefaultWhiteThresh
	}
	setTrue(&c.Analyze.AutoThresh)
	setTrue(&c.Analyze.EnableEdges)
	setTrue(&c.Overlay.Edges)
	setTrue(&c.Overlay.Holes)
	setTrue(&c.Overlay.Labels)
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	setTrue(&c.Server.Metrics)
	if c.UI.Mode == "" {
		c.UI.Mode = DefaultUIMode
	}
}

func setTrue(b **bool) {
	if *b == nil {
		v := true
		*b = &v
	}
}

// Enabled dereferences an optional flag, treating nil as false.
func Enabled(b *bool) bool {
	return b != nil && *b
}

// AnalyzeTimeoutDuration parses Backend.AnalyzeTimeout.
func (c *Config) AnalyzeTimeoutDuration() time.Duration {
	return mustDuration(c.Backend.AnalyzeTimeout, 15*time.Second)
}

// RequestTimeoutDuration parses Backend.RequestTimeout; zero means none.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return mustDuration(c.Backend.RequestTimeout, 0)
}

// PollIntervalDuration parses Polling.Interval.
func (c *Config) PollIntervalDuration() time.Duration {
	return mustDuration(c.Polling.Interval, time.Second)
}

// DismissAfterDuration parses Notifications.DismissAfter.
func (c *Config) DismissAfterDuration() time.Duration {
	return mustDuration(c.Notifications.DismissAfter, 2500*time.Millisecond)
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// UnmarshalExtension decodes a top-level section not modelled by Config
// into target, which must be a pointer. A missing key leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}
	return nil
}
