package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rotation/core/model"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `team:
  players:
    - {name: Ava, position: guard, target_minutes: 25}
    - {name: Bea, position: G}
    - {name: Cal, position: forward}
    - {name: Dee, position: F, inexperienced: true}
    - {name: Eli, position: F}
    - {name: Fay, position: G, prioritize: true}
  constraints:
    policy: balanced_equal
    starters: [Ava, Bea, Cal, Dee, Eli]
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  topic_prefix: "club/u12"
  qos: 1
metrics:
  sinks:
    - type: "nop"
history:
  type: sqlite
  conf:
    path: rotations.db
logging:
  level: debug
api:
  addr: "127.0.0.1:9000"
  token: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"players", len(cfg.Team.Players), 6},
		{"position long form", cfg.Team.Players[0].Position, model.Guard},
		{"position short form", cfg.Team.Players[3].Position, model.Forward},
		{"target", cfg.Team.Players[0].TargetMinutes, 25},
		{"inexperienced", cfg.Team.Players[3].Inexperienced, true},
		{"prioritize", cfg.Team.Players[5].Prioritize, true},
		{"policy", cfg.Team.Constraints.Policy, model.PolicyBalancedEqual},
		{"attempt bound default", cfg.Team.Constraints.AttemptBound, model.DefaultAttemptBound},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"username", cfg.MQTT.Username, "user"},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "club/u12"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt retries default", cfg.MQTT.MaxRetries, 3},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"history", cfg.History.Type, "sqlite"},
		{"history path", cfg.History.Conf["path"], "rotations.db"},
		{"level", cfg.Logging.Level, "debug"},
		{"api addr", cfg.API.Addr, "127.0.0.1:9000"},
		{"api token", cfg.API.Token, "secret"},
		{"sentry env default", cfg.Sentry.Environment, "production"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	assert.True(t, cfg.MQTTEnabled())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"logging": {"level": "warn"}, "api": {"addr": ":8081"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":8081", cfg.API.Addr)
}

func TestLoadDefaultsToDefaultTeam(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTeam(), cfg.Team)
	assert.False(t, cfg.MQTTEnabled())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Empty(t, cfg.History.Type)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "logging:\n  level: info\n")
	t.Setenv("K_LOGGING__LEVEL", "error")
	t.Setenv("K_TEAM__CONSTRAINTS__POLICY", "balanced_equal")
	t.Setenv("K_MQTT__BROKER", "tcp://broker:1883")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, model.PolicyBalancedEqual, cfg.Team.Constraints.Policy)
	assert.Len(t, cfg.Team.Players, 9)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "rotation", cfg.MQTT.TopicPrefix)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unsupported format", "config.toml", "a = 1"},
		{"bad level", "config.yaml", "logging:\n  level: loud\n"},
		{"bad addr", "config.yaml", "api:\n  addr: nope\n"},
		{"bad qos", "config.yaml", "mqtt:\n  broker: tcp://b:1883\n  qos: 5\n"},
		{"bad position", "config.yaml", "team:\n  players:\n    - {name: A, position: center}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsBadTeam(t *testing.T) {
	path := writeFile(t, "config.yaml", `team:
  players:
    - {name: A, position: G}
    - {name: A, position: F}
`)
	_, err := Load(path)
	var cfgErr *model.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
}
