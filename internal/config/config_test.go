package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000

redis:
  enabled: true
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  max_players: 4
  default_goal: 1000
  turn_max: 20
  turn_min: 5
  turn_curve: 2.5
  bot_think: 500

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  rate_limit:
    max_per_second: 20

log:
  level: debug
  format: json
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, 1000, cfg.Game.DefaultGoal)
	assert.InDelta(t, 2.5, cfg.Game.TurnCurve, 1e-9)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.BotThinkDuration())
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, 20, cfg.Security.RateLimit.MaxPerSecond)
	assert.Equal(t, defaultRateMaxPerMinute, cfg.Security.RateLimit.MaxPerMinute)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, defaultMaxPlayers, cfg.Game.MaxPlayers)
	assert.Equal(t, defaultHandSize, cfg.Game.HandSize)
	assert.Equal(t, defaultGoal, cfg.Game.DefaultGoal)
	assert.Equal(t, defaultSpeedLimitCap, cfg.Game.SpeedLimitCap)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
}

func TestLoad_ClampsMinPlayers(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "game:\n  max_players: 3\n  min_players: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Game.MinPlayers)
}

func TestDefault(t *testing.T) {
	// Note: Not parallel because Default() reads environment variables

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, defaultTurnMax, cfg.Game.TurnMax)
	assert.Equal(t, defaultTurnMin, cfg.Game.TurnMin)
	assert.Equal(t, defaultMinPlayers, cfg.Game.MinPlayers)
}

func TestDurationMethods(t *testing.T) {
	t.Parallel()

	g := &GameConfig{
		TurnMax:         15,
		TurnMin:         3,
		BotThink:        2000,
		FinishedCleanup: 30,
		RoomTimeout:     10,
	}
	assert.Equal(t, 15*time.Second, g.TurnMaxDuration())
	assert.Equal(t, 3*time.Second, g.TurnMinDuration())
	assert.Equal(t, 2*time.Second, g.BotThinkDuration())
	assert.Equal(t, 30*time.Second, g.FinishedCleanupDuration())
	assert.Equal(t, 10*time.Minute, g.RoomTimeoutDuration())

	s := &ServerConfig{LobbyBroadcastInterval: 2500, ShutdownTimeout: 10}
	assert.Equal(t, 2500*time.Millisecond, s.LobbyBroadcastDuration())
	assert.Equal(t, 10*time.Second, s.ShutdownTimeoutDuration())

	r := &RedisConfig{RoomTTL: 120}
	assert.Equal(t, 2*time.Hour, r.RoomTTLDuration())

	rl := &RateLimitConfig{BanDuration: 120}
	assert.Equal(t, 120*time.Second, rl.BanDurationTime())
}

func TestLoadFromEnv(t *testing.T) {
	// Not parallel because it modifies environment variables

	t.Setenv("RACE_HOST", "env-host")
	t.Setenv("RACE_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com, http://b.com")

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
}
