package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateDVR(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProvider() error {
	if c.Provider.Username == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/overair/config.toml"
		}
		return fmt.Errorf("provider.username is required. Set OVERAIR_PROVIDER_USERNAME or edit %s (create with 'overair config init')", defaultPath)
	}
	if c.Provider.Password == "" {
		return errors.New("provider.password is required. Set OVERAIR_PROVIDER_PASSWORD or add it to the config file")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Days < 1 || c.Sync.Days > 14 {
		return errors.New("sync.days must be between 1 and 14")
	}
	switch c.Sync.SchedulePolicy {
	case "ignore", "upsert":
		return nil
	default:
		return fmt.Errorf("sync.schedule_policy must be %q or %q", "ignore", "upsert")
	}
}

func (c *Config) validateDVR() error {
	if !c.DVR.Enabled {
		return nil
	}
	if strings.TrimSpace(c.DVR.URL) == "" {
		return errors.New("dvr.url must be set when dvr.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be %q or %q", "console", "json")
	}
}
