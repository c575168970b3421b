package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

// FileName configuration file looked up beside the executable
const FileName = "config.toml"

// AppConfig application configuration
type AppConfig struct {
	Server  ServerConfig                   `toml:"server"`
	Data    DataConfig                     `toml:"data"`
	Log     LogConfig                      `toml:"log"`
	Targets model.TargetConfig             `toml:"targets"`
	Columns map[string]map[string][]string `toml:"columns"` // dataset -> field -> keywords
	Export  ExportConfig                   `toml:"export"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig session store
type DataConfig struct {
	DBPath string `toml:"db_path"` // ":memory:" keeps nothing after exit
}

// LogConfig logging
type LogConfig struct {
	Level string `toml:"level"`
}

// ExportConfig spreadsheet export
type ExportConfig struct {
	Filename string `toml:"filename"`
}

// LoadConfigInfo what the file explicitly set
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig defaults used when config.toml is absent
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8501,
			DevMode: false,
		},
		Data: DataConfig{
			DBPath: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Targets: model.DefaultTargetConfig(),
		Export: ExportConfig{
			Filename: "relatorio.xlsx",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath config.toml beside the executable, or in the working directory
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadFile loads a config file over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, info, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	if err := config.Targets.Validate(); err != nil {
		return nil, info, fmt.Errorf("invalid [targets]: %w", err)
	}
	return config, info, nil
}

// LoadConfigWithInfo loads config.toml from the executable directory
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(DefaultPath())
}

// SaveConfig writes the configuration as TOML
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv("RETIDOS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RETIDOS_PORT %q: %w", v, err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("RETIDOS_DB_PATH"); v != "" {
		config.Data.DBPath = v
	}
	return nil
}
