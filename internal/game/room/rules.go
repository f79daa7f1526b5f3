package room

import (
	"time"

	"github.com/palemoky/road-race/internal/config"
)

const maxNameLength = 20

// 机器人与座位标记
var (
	botNames   = []string{"Herbie", "KITT", "Mach 5", "Lightning"}
	carMarkers = []string{"🚗", "🚕", "🚙", "🏎️", "🚓"}
)

// Rules 房间规则参数
type Rules struct {
	MaxPlayers      int
	MinPlayers      int
	HandSize        int
	DefaultGoal     int
	MinGoal         int
	MaxGoal         int
	SpeedLimitCap   int
	TurnMax         time.Duration
	TurnMin         time.Duration
	TurnCurve       float64
	BotThink        time.Duration
	DifficultyBand  int
	EasySafetySkip  int // 百分比
	FinishedCleanup time.Duration
	RoomTimeout     time.Duration
}

// RulesFromConfig 从配置构建规则
func RulesFromConfig(c config.GameConfig) Rules {
	return Rules{
		MaxPlayers:      c.MaxPlayers,
		MinPlayers:      c.MinPlayers,
		HandSize:        c.HandSize,
		DefaultGoal:     c.DefaultGoal,
		MinGoal:         c.MinGoal,
		MaxGoal:         c.MaxGoal,
		SpeedLimitCap:   c.SpeedLimitCap,
		TurnMax:         c.TurnMaxDuration(),
		TurnMin:         c.TurnMinDuration(),
		TurnCurve:       c.TurnCurve,
		BotThink:        c.BotThinkDuration(),
		DifficultyBand:  c.DifficultyBand,
		EasySafetySkip:  c.EasySafetySkip,
		FinishedCleanup: c.FinishedCleanupDuration(),
		RoomTimeout:     c.RoomTimeoutDuration(),
	}
}

// DefaultRules 默认规则
func DefaultRules() Rules {
	return RulesFromConfig(config.Default().Game)
}

// ValidGoal 目标距离是否在允许范围内
func (r Rules) ValidGoal(goal int) bool {
	return goal >= r.MinGoal && goal <= r.MaxGoal
}
