// Package config loads the optional txload.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/fraudlab/txload/pkg/txload"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the working directory when --config is not given.
const ConfigFileName = "txload.yaml"

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// DatasetConfig overrides one dataset. Empty fields keep the defaults.
type DatasetConfig struct {
	Path        string   `yaml:"path"`
	Table       string   `yaml:"table"`
	DateColumns []string `yaml:"date_columns,omitempty"`
}

type DatasetsConfig struct {
	Train DatasetConfig `yaml:"train"`
	Test  DatasetConfig `yaml:"test"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Datasets   DatasetsConfig   `yaml:"datasets"`
	Delimiter  string           `yaml:"delimiter"`
	Timeout    string           `yaml:"timeout"`
}

// Load reads and decodes the project file at path.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, err, txload.ErrInvalidConfig)
	}
	return &cfg, nil
}

// ApplyDatasets overlays the file's dataset settings onto ds, matched by
// dataset name. ds is modified in place and returned.
func (c *ProjectConfig) ApplyDatasets(ds []txload.Dataset) []txload.Dataset {
	overrides := map[string]DatasetConfig{
		"train": c.Datasets.Train,
		"test":  c.Datasets.Test,
	}
	for i := range ds {
		o, ok := overrides[ds[i].Name]
		if !ok {
			continue
		}
		if o.Path != "" {
			ds[i].Path = o.Path
		}
		if o.Table != "" {
			ds[i].Table = o.Table
		}
		if len(o.DateColumns) > 0 {
			ds[i].DateColumns = append([]string(nil), o.DateColumns...)
		}
	}
	return ds
}

// TimeoutDuration parses Timeout. Zero means unset.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w: %w", c.Timeout, err, txload.ErrInvalidConfig)
	}
	return d, nil
}

// ParseDelimiter turns a delimiter setting into a rune. "" means comma;
// "tab" and "\t" mean a tab character.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("delimiter %q must be a single character other than quote or newline: %w", s, txload.ErrInvalidConfig)
	}
	return r, nil
}
