package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultHost                   = "0.0.0.0"
	defaultPort                   = 1780
	defaultMaxConnections         = 10000
	defaultLobbyBroadcastInterval = 2500 // 毫秒
	defaultShutdownTimeout        = 10
	defaultRedisAddr              = "localhost:6379"
	defaultRoomTTL                = 120

	defaultMaxPlayers      = 5
	defaultMinPlayers      = 2
	defaultHandSize        = 6
	defaultGoal            = 700
	defaultMinGoal         = 100
	defaultMaxGoal         = 5000
	defaultSpeedLimitCap   = 50
	defaultTurnMax         = 15
	defaultTurnMin         = 3
	defaultTurnCurve       = 3.0
	defaultBotThink        = 2000 // 毫秒
	defaultDifficultyBand  = 150
	defaultEasySafetySkip  = 30
	defaultFinishedCleanup = 30
	defaultRoomTimeout     = 10

	defaultRateMaxPerSecond    = 10
	defaultRateMaxPerMinute    = 60
	defaultRateBanDuration     = 60
	defaultMessageMaxPerSecond = 20

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	MaxConnections         int    `yaml:"max_connections"`
	LobbyBroadcastInterval int    `yaml:"lobby_broadcast_interval"` // 大厅房间列表推送间隔（毫秒）
	ShutdownTimeout        int    `yaml:"shutdown_timeout"`         // 优雅关闭等待（秒）
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	RoomTTL  int    `yaml:"room_ttl"` // 房间镜像过期时间（分钟）
}

// GameConfig 比赛规则配置
type GameConfig struct {
	MaxPlayers      int     `yaml:"max_players"`
	MinPlayers      int     `yaml:"min_players"` // 单人开局时用机器人补足到该人数
	HandSize        int     `yaml:"hand_size"`
	DefaultGoal     int     `yaml:"default_goal"`
	MinGoal         int     `yaml:"min_goal"`
	MaxGoal         int     `yaml:"max_goal"`
	SpeedLimitCap   int     `yaml:"speed_limit_cap"`
	TurnMax         int     `yaml:"turn_max"`        // 回合最长时间（秒）
	TurnMin         int     `yaml:"turn_min"`        // 回合最短时间（秒）
	TurnCurve       float64 `yaml:"turn_curve"`      // 回合时间衰减指数
	BotThink        int     `yaml:"bot_think"`       // 机器人思考时间（毫秒）
	DifficultyBand  int     `yaml:"difficulty_band"` // 机器人难度判定的距离区间
	EasySafetySkip  int     `yaml:"easy_safety_skip"`
	FinishedCleanup int     `yaml:"finished_cleanup"` // 比赛结束后保留房间（秒）
	RoomTimeout     int     `yaml:"room_timeout"`     // 等待中房间超时（分钟）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 连接速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text/json
	File   string `yaml:"file"`   // 为空时输出到 stderr
}

// TurnMaxDuration 回合最长时间
func (c *GameConfig) TurnMaxDuration() time.Duration {
	return time.Duration(c.TurnMax) * time.Second
}

// TurnMinDuration 回合最短时间
func (c *GameConfig) TurnMinDuration() time.Duration {
	return time.Duration(c.TurnMin) * time.Second
}

// BotThinkDuration 机器人思考时间
func (c *GameConfig) BotThinkDuration() time.Duration {
	return time.Duration(c.BotThink) * time.Millisecond
}

// FinishedCleanupDuration 结束后房间保留时长
func (c *GameConfig) FinishedCleanupDuration() time.Duration {
	return time.Duration(c.FinishedCleanup) * time.Second
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// LobbyBroadcastDuration 大厅推送间隔
func (c *ServerConfig) LobbyBroadcastDuration() time.Duration {
	return time.Duration(c.LobbyBroadcastInterval) * time.Millisecond
}

// ShutdownTimeoutDuration 优雅关闭等待
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// RoomTTLDuration 房间镜像过期时间
func (c *RedisConfig) RoomTTLDuration() time.Duration {
	return time.Duration(c.RoomTTL) * time.Minute
}

// BanDurationTime 封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// Default 返回默认配置（仍会应用环境变量）
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg
}

func setDefault[T comparable](v *T, def T) {
	var zero T
	if *v == zero {
		*v = def
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Host, defaultHost)
	setDefault(&c.Server.Port, defaultPort)
	setDefault(&c.Server.MaxConnections, defaultMaxConnections)
	setDefault(&c.Server.LobbyBroadcastInterval, defaultLobbyBroadcastInterval)
	setDefault(&c.Server.ShutdownTimeout, defaultShutdownTimeout)

	setDefault(&c.Redis.Addr, defaultRedisAddr)
	setDefault(&c.Redis.RoomTTL, defaultRoomTTL)

	g := &c.Game
	setDefault(&g.MaxPlayers, defaultMaxPlayers)
	setDefault(&g.MinPlayers, defaultMinPlayers)
	setDefault(&g.HandSize, defaultHandSize)
	setDefault(&g.DefaultGoal, defaultGoal)
	setDefault(&g.MinGoal, defaultMinGoal)
	setDefault(&g.MaxGoal, defaultMaxGoal)
	setDefault(&g.SpeedLimitCap, defaultSpeedLimitCap)
	setDefault(&g.TurnMax, defaultTurnMax)
	setDefault(&g.TurnMin, defaultTurnMin)
	setDefault(&g.TurnCurve, defaultTurnCurve)
	setDefault(&g.BotThink, defaultBotThink)
	setDefault(&g.DifficultyBand, defaultDifficultyBand)
	setDefault(&g.EasySafetySkip, defaultEasySafetySkip)
	setDefault(&g.FinishedCleanup, defaultFinishedCleanup)
	setDefault(&g.RoomTimeout, defaultRoomTimeout)
	if g.MinPlayers > g.MaxPlayers {
		g.MinPlayers = g.MaxPlayers
	}

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	setDefault(&c.Security.RateLimit.MaxPerSecond, defaultRateMaxPerSecond)
	setDefault(&c.Security.RateLimit.MaxPerMinute, defaultRateMaxPerMinute)
	setDefault(&c.Security.RateLimit.BanDuration, defaultRateBanDuration)
	setDefault(&c.Security.MessageLimit.MaxPerSecond, defaultMessageMaxPerSecond)

	setDefault(&c.Log.Level, defaultLogLevel)
	setDefault(&c.Log.Format, defaultLogFormat)
}

// applyEnv 环境变量覆盖（.env 由 main 通过 godotenv 预先加载）
func (c *Config) applyEnv() {
	if v := os.Getenv("RACE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("RACE_PORT")); err == nil && v > 0 {
		c.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v, err := strconv.ParseBool(os.Getenv("REDIS_ENABLED")); err == nil {
		c.Redis.Enabled = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for o := range strings.SplitSeq(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.Security.AllowedOrigins = origins
		}
	}
}
