package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Driver         string `yaml:"driver"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// LoaderConfig is the content of taxiload.yaml.
type LoaderConfig struct {
	Connection  ConnectionConfig `yaml:"connection"`
	Table       string           `yaml:"table"`
	CreateTable bool             `yaml:"create_table"`
	Timeout     string           `yaml:"timeout"`
}

const ConfigFileName = "taxiload.yaml"

// Load reads taxiload.yaml from dir.
func Load(dir string) (*LoaderConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file from an explicit path.
func LoadFile(path string) (*LoaderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg LoaderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// ParseTimeout returns the configured run timeout, zero when unset.
func (c *LoaderConfig) ParseTimeout() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

// ParseConnectTimeout returns the configured connect timeout, zero when unset.
func (c *ConnectionConfig) ParseConnectTimeout() (time.Duration, error) {
	return parseDuration("connection.connect_timeout", c.ConnectTimeout)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}
