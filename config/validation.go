package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/grovetools/cellconsole/errors"
)

// Validate checks if the configuration is valid. It expects defaults to
// have been applied.
func (c *Config) Validate() error {
	if err := validateHost(c.Backend.Host); err != nil {
		return err
	}

	durations := []struct {
		field, value string
		allowEmpty   bool
	}{
		{"backend.analyze_timeout", c.Backend.AnalyzeTimeout, false},
		{"backend.request_timeout", c.Backend.RequestTimeout, true},
		{"polling.interval", c.Polling.Interval, false},
		{"notifications.dismiss_after", c.Notifications.DismissAfter, false},
	}
	for _, d := range durations {
		if err := validateDuration(d.field, d.value, d.allowEmpty); err != nil {
			return err
		}
	}

	if c.Backend.RateLimit < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "backend.rate_limit cannot be negative").
			WithDetail("rate_limit", c.Backend.RateLimit)
	}

	if c.Analyze.WhiteThresh < 0 || c.Analyze.WhiteThresh > 255 {
		return errors.New(errors.ErrCodeConfigValidation, "analyze.white_thresh must be between 0 and 255").
			WithDetail("white_thresh", c.Analyze.WhiteThresh)
	}

	switch c.UI.Mode {
	case "pick", "draw", "sort":
	default:
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("unknown ui.mode %q", c.UI.Mode)).
			WithDetail("mode", c.UI.Mode)
	}

	return nil
}

func validateHost(host string) error {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("backend.host must be an absolute URL, got %q", host)).
			WithDetail("host", host)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrCodeConfigValidation, "backend.host must use http or https").
			WithDetail("host", host)
	}
	return nil
}

func validateDuration(field, value string, allowEmpty bool) error {
	if value == "" && allowEmpty {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("%s is not a duration", field)).
			WithDetail(field, value)
	}
	if d <= 0 {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("%s must be positive", field)).
			WithDetail(field, value)
	}
	return nil
}
