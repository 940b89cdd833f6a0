package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nodewee/doc-highlight/pkg/constants"
	"github.com/nodewee/doc-highlight/pkg/utils"
)

const (
	ConfigFileName = "config.yaml"
	AppDirName     = ".doc-highlight"
)

// GetConfigDir returns the user configuration directory (~/.doc-highlight)
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}
	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads configuration from the user file, creating it on first use
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads configuration from configPath, creating a default
// file with auto-detected tool paths when it does not exist
func LoadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfigFile(configPath)
	}
	return loadConfigFromFile(configPath)
}

func createDefaultConfigFile(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	config := NewConfig()
	detectAndUpdateToolPaths(config)

	if err := saveConfigFile(configPath, config); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to save default config file")
	}

	fmt.Printf("✅ Created default configuration file: %s\n", configPath)
	if hasDetectedTools(config) {
		fmt.Printf("🔍 Auto-detected available tools\n")
	}
	return config, nil
}

func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	// Keys missing from the file keep their defaults
	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, utils.NewValidationError("failed to parse config file "+configPath, err)
	}
	return config, nil
}

// SaveConfig saves configuration to the user file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}
	return saveConfigFile(configPath, config)
}

func saveConfigFile(configPath string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeSystem, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}
	return nil
}

// detectAndUpdateToolPaths fills empty tool paths from PATH and the
// platform's usual install locations
func detectAndUpdateToolPaths(config *Config) {
	platformConfig := constants.GetPlatformConfig()

	targets := []struct {
		field      *string
		candidates []string
	}{
		{&config.SofficePath, platformConfig.SofficePaths},
		{&config.PandocPath, platformConfig.PandocPaths},
		{&config.TesseractPath, platformConfig.TesseractPaths},
	}

	for _, target := range targets {
		if *target.field != "" {
			continue
		}
		if path := detectTool(target.candidates); path != "" {
			*target.field = path
		}
	}
}

func detectTool(candidates []string) string {
	for _, candidate := range candidates {
		if filepath.IsAbs(candidate) {
			if utils.IsExecutable(candidate) {
				return utils.NormalizePath(candidate)
			}
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return utils.NormalizePath(path)
		}
	}
	return ""
}

func hasDetectedTools(config *Config) bool {
	return config.SofficePath != "" || config.PandocPath != "" || config.TesseractPath != ""
}

// configKeys maps persisted keys to accessors on Config
var configKeys = map[string]struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}{
	"soffice_path": {
		get: func(c *Config) string { return c.SofficePath },
		set: func(c *Config, v string) error { c.SofficePath = v; return nil },
	},
	"pandoc_path": {
		get: func(c *Config) string { return c.PandocPath },
		set: func(c *Config, v string) error { c.PandocPath = v; return nil },
	},
	"tesseract_path": {
		get: func(c *Config) string { return c.TesseractPath },
		set: func(c *Config, v string) error { c.TesseractPath = v; return nil },
	},
	"ocr_engine": {
		get: func(c *Config) string { return c.OCREngine },
		set: func(c *Config, v string) error { c.OCREngine = v; return nil },
	},
	"ocr_languages": {
		get: func(c *Config) string { return c.OCRLanguages },
		set: func(c *Config, v string) error { c.OCRLanguages = v; return nil },
	},
	"converter": {
		get: func(c *Config) string { return c.Converter },
		set: func(c *Config, v string) error { c.Converter = v; return nil },
	},
	"highlight_color": {
		get: func(c *Config) string { return c.HighlightColor },
		set: func(c *Config, v string) error { c.HighlightColor = v; return nil },
	},
	"pdf_stroke_width": {
		get: func(c *Config) string { return strconv.FormatFloat(c.PDFStrokeWidth, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return utils.NewValidationError("pdf_stroke_width must be a number", err)
			}
			c.PDFStrokeWidth = f
			return nil
		},
	},
	"image_stroke_width": {
		get: func(c *Config) string { return strconv.Itoa(c.ImageStrokeWidth) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return utils.NewValidationError("image_stroke_width must be an integer", err)
			}
			c.ImageStrokeWidth = n
			return nil
		},
	},
	"history_db": {
		get: func(c *Config) string { return c.HistoryDB },
		set: func(c *Config, v string) error { c.HistoryDB = v; return nil },
	},
	"log_level": {
		get: func(c *Config) string { return c.LogLevel },
		set: func(c *Config, v string) error { c.LogLevel = v; return nil },
	},
}

// Get returns the value of a persisted key
func (c *Config) Get(key string) (string, error) {
	accessor, ok := configKeys[key]
	if !ok {
		return "", utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}
	return accessor.get(c), nil
}

// Set assigns a persisted key. c is left unchanged when the value does not
// validate.
func (c *Config) Set(key, value string) error {
	accessor, ok := configKeys[key]
	if !ok {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}
	next := c.Clone()
	if err := accessor.set(next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return config.Get(key)
}

// SetConfigValue sets a specific configuration value by key and saves it
func SetConfigValue(key, value string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := config.Set(key, value); err != nil {
		return err
	}
	return SaveConfig(config)
}

// ListConfigKeys returns all available configuration keys in sorted order
func ListConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
