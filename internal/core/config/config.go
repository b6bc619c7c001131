package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the YAML document read by cmd/server.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Playback PlaybackConfig `yaml:"playback"`
	Manager  ManagerConfig  `yaml:"manager"`
	Server   ServerConfig   `yaml:"server"`
}

type LogConfig struct {
	Level log.Level `yaml:"level"`
}

type PlaybackConfig struct {
	// DefaultMix is the crossfade used between animations without a
	// configured mix.
	DefaultMix float32 `yaml:"default_mix"`
	// TimeScale is given to every new animation state.
	TimeScale float32 `yaml:"time_scale"`
	Mixes     []Mix   `yaml:"mixes"`
}

// Mix is the crossfade duration, in seconds, from one animation to
// another.
type Mix struct {
	From     string  `yaml:"from"`
	To       string  `yaml:"to"`
	Duration float32 `yaml:"duration"`
}

type ManagerConfig struct {
	// Workers bounds the instances updated in parallel. Zero means one
	// goroutine per instance.
	Workers int `yaml:"workers"`
	// Instances is the number of demo skeletons started by the server.
	Instances int `yaml:"instances"`
}

type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	TickRate     time.Duration `yaml:"tick_rate"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxClients   int           `yaml:"max_clients"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: log.LevelInfo},
		Playback: PlaybackConfig{
			DefaultMix: 0.2,
			TimeScale:  1,
		},
		Manager: ManagerConfig{Instances: 1},
		Server: ServerConfig{
			ListenAddr:   ":8080",
			TickRate:     time.Second / 30,
			WriteTimeout: 5 * time.Second,
			MaxClients:   64,
		},
	}
}

// Load reads a YAML document over the defaults. Unknown keys are errors.
// An empty document yields the defaults.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open config")
	}
	defer func() { _ = f.Close() }()

	c, err := Load(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load config %s", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Playback.DefaultMix < 0 {
		errs = append(errs, fmt.Errorf("playback.default_mix must not be negative"))
	}
	if c.Playback.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("playback.time_scale must not be negative"))
	}
	for i, m := range c.Playback.Mixes {
		if m.From == "" || m.To == "" {
			errs = append(errs, fmt.Errorf("playback.mixes[%d]: from and to are required", i))
		}
		if m.Duration < 0 {
			errs = append(errs, fmt.Errorf("playback.mixes[%d]: duration must not be negative", i))
		}
	}
	if c.Manager.Workers < 0 {
		errs = append(errs, fmt.Errorf("manager.workers must not be negative"))
	}
	if c.Manager.Instances < 0 {
		errs = append(errs, fmt.Errorf("manager.instances must not be negative"))
	}
	if c.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("server.tick_rate must be positive"))
	}
	if c.Server.MaxClients < 0 {
		errs = append(errs, fmt.Errorf("server.max_clients must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ApplyMixes sets the default and the configured mixes on data. Every
// configured animation must exist in the skeleton data.
func (c *Config) ApplyMixes(data *playback.AnimationStateData) error {
	data.DefaultMix = c.Playback.DefaultMix
	for _, m := range c.Playback.Mixes {
		if err := data.SetMixByName(m.From, m.To, m.Duration); err != nil {
			return fmt.Errorf("mix %s -> %s: %w", m.From, m.To, err)
		}
	}
	return nil
}

// Level is the configured log level.
func (c *Config) Level() log.Level {
	return c.Log.Level
}
