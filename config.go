package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/thiefmaster/levelremote/apis"
	"github.com/thiefmaster/levelremote/logging"
	"gopkg.in/yaml.v2"
)

const (
	envPrefix     = "LEVELREMOTE_"
	configPathEnv = envPrefix + "CONFIG"
)

type appConfig struct {
	// Host is the address to bind; empty means the primary IPv4 address.
	Host           string        `yaml:"host" env:"HOST"`
	Port           int           `yaml:"port" env:"PORT"`
	Path           string        `yaml:"path" env:"PATH"`
	Heartbeat      time.Duration `yaml:"heartbeat" env:"HEARTBEAT"`
	RestartBackoff time.Duration `yaml:"restartBackoff" env:"RESTART_BACKOFF"`
	Device         string        `yaml:"device" env:"DEVICE"`
	LogFile        string        `yaml:"logFile" env:"LOG_FILE"`
	LogLevel       string        `yaml:"logLevel" env:"LOG_LEVEL"`
}

func defaultConfig() appConfig {
	return appConfig{
		Port:           8765,
		Path:           "/",
		Heartbeat:      1 * time.Second,
		RestartBackoff: 5 * time.Second,
		Device:         apis.BackendSystem,
		LogLevel:       "info",
	}
}

// loadConfig layers the optional config file and environment overrides on
// top of the defaults.
func loadConfig() (appConfig, error) {
	c := defaultConfig()
	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		if err := c.load(path); err != nil {
			return c, err
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: envPrefix}); err != nil {
		return c, fmt.Errorf("could not parse environment: %w", err)
	}
	return c, c.validate()
}

func (c *appConfig) load(path string) error {
	log.Printf("loading config file: %s\n", path)
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %w", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config file: %w", err)
	}
	return nil
}

func (c *appConfig) validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case !strings.HasPrefix(c.Path, "/"):
		return fmt.Errorf("path %q must start with /", c.Path)
	case c.Heartbeat <= 0:
		return fmt.Errorf("heartbeat must be positive, got %v", c.Heartbeat)
	case c.RestartBackoff <= 0:
		return fmt.Errorf("restart backoff must be positive, got %v", c.RestartBackoff)
	case c.Device != apis.BackendSystem && c.Device != apis.BackendDummy:
		return fmt.Errorf("unknown device backend %q", c.Device)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// bindAddress resolves host:port, looking up the primary IPv4 address when
// no host is configured.
func (c *appConfig) bindAddress(resolve func() (string, error)) (string, error) {
	host := c.Host
	if host == "" {
		ip, err := resolve()
		if err != nil {
			return "", err
		}
		host = ip
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port)), nil
}
