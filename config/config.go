package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/deskpet/common"
	"gopkg.in/yaml.v3"
)

var ScaleOptions = []float64{0.3, 0.5, 0.7, 0.9, 1.1, 1.3, 1.5, 1.7, 1.9}

var TransparencyOptions = []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3}

const (
	DefaultScaleIndex = 3

	MinScreenshotInterval = 30
	MinMaxTokens          = 100
	MaxMaxTokens          = 4000
	MaxTemperature        = 2.0
)

// Config holds every persisted user setting.
type Config struct {
	// Pet
	ScaleIndex        int    `yaml:"scale_index"`
	TransparencyIndex int    `yaml:"transparency_index"`
	ClickThrough      bool   `yaml:"click_through"`
	FollowMouse       bool   `yaml:"follow_mouse"`
	SpriteDir         string `yaml:"sprite_dir"`
	PetName           string `yaml:"pet_name"`

	AI     AIConfig     `yaml:"ai"`
	Vision VisionConfig `yaml:"vision"`

	// Observation
	EnableObservation   bool     `yaml:"enable_screenshot_analysis"`
	ObserveInterval     int      `yaml:"screenshot_interval"` // seconds
	ScreenshotQuality   int      `yaml:"screenshot_quality"`
	OnlyObserveWhenIdle bool     `yaml:"only_analyze_when_idle"`
	CaptureCommand      []string `yaml:"capture_command,omitempty"`

	// Feed
	FeedAddr string `yaml:"feed_addr"`
}

// AIConfig configures the OpenAI-compatible chat endpoint.
type AIConfig struct {
	Enabled          bool    `yaml:"enable_ai"`
	BaseURL          string  `yaml:"base_url"`
	APIKey           string  `yaml:"api_key"`
	Model            string  `yaml:"model"`
	Temperature      float64 `yaml:"temperature"`
	MaxTokens        int     `yaml:"max_tokens"`
	MaxHistoryLength int     `yaml:"max_history_length"`
	AutoSaveHistory  bool    `yaml:"auto_save_history"`
	HistoryFile      string  `yaml:"history_file"`
	PromptFile       string  `yaml:"prompt_file"`
}

type VisionConfig struct {
	Model  string `yaml:"vl_model"`
	APIKey string `yaml:"vl_api_key"`
	APIURL string `yaml:"vl_api_url"`
}

func Default() Config {
	return Config{
		ScaleIndex:        DefaultScaleIndex,
		TransparencyIndex: 0,
		ClickThrough:      true,
		FollowMouse:       false,
		SpriteDir:         "gifs",
		PetName:           "Ameath",
		AI: AIConfig{
			Enabled:          false,
			BaseURL:          "https://api.deepseek.com",
			Model:            "qwen3-omni-flash-2025-12-01",
			Temperature:      0.7,
			MaxTokens:        500,
			MaxHistoryLength: 100,
			AutoSaveHistory:  true,
			HistoryFile:      "chat_history.json",
			PromptFile:       "prompt.txt",
		},
		Vision: VisionConfig{
			Model:  "openbmb/minicpm-v4.5:8b",
			APIURL: "https://api.deepseek.com/v1/vision/analysis",
		},
		EnableObservation:   true,
		ObserveInterval:     60,
		ScreenshotQuality:   85,
		OnlyObserveWhenIdle: true,
	}
}

// DefaultPath is <UserConfigDir>/deskpet/config.yaml, or config.yaml in the
// working directory when no user config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "deskpet", "config.yaml")
}

// Load reads path on top of the defaults. A missing file yields the
// defaults and no error; an unreadable or malformed file yields the defaults
// and an error wrapping common.ErrPersistence.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w: %w", path, common.ErrPersistence, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w: %w", path, common.ErrPersistence, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save writes the config atomically next to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w: %w", common.ErrPersistence, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w: %w", dir, common.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp config: %w: %w", common.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w: %w", common.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w: %w", common.ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w: %w", path, common.ErrPersistence, err)
	}
	return nil
}

// Normalize clamps every bounded setting into range.
func (c *Config) Normalize() {
	c.ScaleIndex = common.ClampInt(c.ScaleIndex, 0, len(ScaleOptions)-1)
	c.TransparencyIndex = common.ClampInt(c.TransparencyIndex, 0, len(TransparencyOptions)-1)
	c.SetTemperature(c.AI.Temperature)
	c.SetMaxTokens(c.AI.MaxTokens)
	c.SetObserveInterval(c.ObserveInterval)
	c.SetScreenshotQuality(c.ScreenshotQuality)
	if c.AI.MaxHistoryLength <= 0 {
		c.AI.MaxHistoryLength = Default().AI.MaxHistoryLength
	}
}

func (c *Config) SetTemperature(t float64) {
	c.AI.Temperature = common.Clamp(t, 0, MaxTemperature)
}

func (c *Config) SetMaxTokens(n int) {
	c.AI.MaxTokens = common.ClampInt(n, MinMaxTokens, MaxMaxTokens)
}

// SetObserveInterval sets the observation period in seconds, at least 30.
func (c *Config) SetObserveInterval(seconds int) {
	if seconds < MinScreenshotInterval {
		seconds = MinScreenshotInterval
	}
	c.ObserveInterval = seconds
}

func (c *Config) SetScreenshotQuality(q int) {
	c.ScreenshotQuality = common.ClampInt(q, 10, 100)
}

func (c Config) Scale() float64 {
	return ScaleOptions[common.ClampInt(c.ScaleIndex, 0, len(ScaleOptions)-1)]
}

func (c Config) Alpha() float64 {
	return TransparencyOptions[common.ClampInt(c.TransparencyIndex, 0, len(TransparencyOptions)-1)]
}

// NextScale advances ScaleIndex, wrapping to the smallest option.
func (c *Config) NextScale() float64 {
	c.ScaleIndex = (c.ScaleIndex + 1) % len(ScaleOptions)
	return c.Scale()
}

func (c *Config) NextTransparency() float64 {
	c.TransparencyIndex = (c.TransparencyIndex + 1) % len(TransparencyOptions)
	return c.Alpha()
}

func (c Config) ObservePeriod() time.Duration {
	return time.Duration(c.ObserveInterval) * time.Second
}

// AIReady reports whether chat requests can be made at all.
func (c Config) AIReady() bool {
	return c.AI.Enabled && c.AI.APIKey != ""
}

// VisionKey returns the vision API key, falling back to the chat key.
func (c Config) VisionKey() string {
	if c.Vision.APIKey != "" {
		return c.Vision.APIKey
	}
	return c.AI.APIKey
}

// Resolve makes p relative to the directory holding the config file at
// configPath. Absolute and empty paths are returned unchanged.
func Resolve(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
