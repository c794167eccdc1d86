package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateCheckout(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	if strings.TrimSpace(c.Store.Name) == "" {
		return errors.New("store.name must be set")
	}
	if strings.TrimSpace(c.Store.BaseURL) == "" {
		return errors.New("store.base_url must be set")
	}
	if strings.TrimSpace(c.Store.Bind) == "" {
		return errors.New("store.bind must be set")
	}
	return nil
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.data_dir":  c.Paths.DataDir,
		"paths.media_dir": c.Paths.MediaDir,
		"paths.log_dir":   c.Paths.LogDir,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}

func (c *Config) validateEmail() error {
	if c.Email.Port < 1 || c.Email.Port > 65535 {
		return errors.New("email.port must be between 1 and 65535")
	}
	if c.Email.TimeoutSeconds <= 0 {
		return errors.New("email.timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.Email.From) == "" {
		return errors.New("email.from must be set")
	}
	if c.SMTPConfigured() && strings.TrimSpace(c.Email.Username) == "" {
		return errors.New("email.username must be set when email.host is configured")
	}
	return nil
}

func (c *Config) validateCheckout() error {
	if c.Checkout.ToleranceSeconds < 0 {
		return errors.New("checkout.tolerance_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
