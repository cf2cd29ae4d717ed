package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/rotation/core/factory"
	"github.com/kilianp07/rotation/core/metrics"
	"github.com/kilianp07/rotation/core/model"
	"github.com/kilianp07/rotation/infra/mqtt"
)

// EnvPrefix marks environment overrides; "__" separates nested keys, so
// K_TEAM__CONSTRAINTS__POLICY sets team.constraints.policy.
const EnvPrefix = "K_"

type Config struct {
	Team    model.Team           `json:"team"`
	MQTT    mqtt.Config          `json:"mqtt"`
	Metrics metrics.Config       `json:"metrics"`
	Logging LoggingConfig        `json:"logging"`
	History factory.ModuleConfig `json:"history"`
	Sentry  SentryConfig         `json:"sentry"`
	API     APIConfig            `json:"api"`
}

// MQTTEnabled reports whether a broker is configured.
func (c Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }

// Load reads the YAML or JSON file at path, applies K_ environment
// overrides and validates every section. An empty path loads the
// environment only. The team falls back to model.DefaultTeam when no
// players are configured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:           &cfg,
		WeaklyTypedInput: true,
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json", DecoderConfig: dc}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if !k.Exists("team.players") {
		constraints := cfg.Team.Constraints
		cfg.Team = model.DefaultTeam()
		if constraints.Policy != "" {
			cfg.Team.Constraints.Policy = constraints.Policy
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Team.Constraints.SetDefaults()
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
	c.API.SetDefaults()
	if c.MQTTEnabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section. The team is validated as the solver
// would, so a bad roster fails at startup rather than on the first solve.
func (c Config) Validate() error {
	if err := c.Team.Constraints.Validate(c.Team.Players); err != nil {
		return fmt.Errorf("team: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if c.MQTTEnabled() {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	return nil
}
