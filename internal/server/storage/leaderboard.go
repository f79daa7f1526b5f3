package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey   = "race:stats:"
	leaderboardKey   = "race:leaderboard:score"
	dailyLeaderboard = "race:leaderboard:daily:"
)

// PlayerStats 玩家比赛统计（按昵称聚合，没有账号体系）
type PlayerStats struct {
	PlayerName string `json:"player_name"`

	TotalRaces    int `json:"total_races"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	TotalDistance int `json:"total_distance"`
	BestDistance  int `json:"best_distance"`

	Score int `json:"score"`

	// 正数为连胜，负数为连败
	CurrentStreak int `json:"current_streak"`
	MaxWinStreak  int `json:"max_win_streak"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// 积分规则
const (
	WinBonus      = 50 // 冲线奖励
	DistancePerPt = 25 // 每 25 公里 1 分

	StreakBonus3  = 5
	StreakBonus5  = 10
	StreakBonus10 = 20
)

// RaceResult 一名真人玩家的单场结果
type RaceResult struct {
	PlayerName string
	Distance   int
	Won        bool
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerName   string  `json:"player_name"`
	Score        int     `json:"score"`
	Wins         int     `json:"wins"`
	TotalRaces   int     `json:"total_races"`
	WinRate      float64 `json:"win_rate"`
	BestDistance int     `json:"best_distance"`
}

// LeaderboardManager 排行榜管理器，client 为 nil 时为空操作
type LeaderboardManager struct {
	redis *redis.Client
	now   func() time.Time
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client, now: time.Now}
}

// Enabled 是否连接了 Redis
func (lm *LeaderboardManager) Enabled() bool {
	return lm != nil && lm.redis != nil
}

func memberKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetPlayerStats 获取玩家统计，不存在时返回 nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerName string) (*PlayerStats, error) {
	if !lm.Enabled() {
		return nil, nil
	}

	data, err := lm.redis.Get(ctx, playerStatsKey+memberKey(playerName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (lm *LeaderboardManager) savePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, playerStatsKey+memberKey(stats.PlayerName), data, 0).Err()
}

// updateWinLossStats 更新胜负统计和连胜/连败
func updateWinLossStats(stats *PlayerStats, won bool) {
	if won {
		stats.Wins++
		stats.CurrentStreak = max(1, stats.CurrentStreak+1)
	} else {
		stats.Losses++
		stats.CurrentStreak = min(-1, stats.CurrentStreak-1)
	}

	if stats.CurrentStreak > stats.MaxWinStreak {
		stats.MaxWinStreak = stats.CurrentStreak
	}
}

// calculateStreakBonus 计算连胜加成
func calculateStreakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	default:
		return 0
	}
}

// RecordRaceResult 记录一名玩家的比赛结果
func (lm *LeaderboardManager) RecordRaceResult(ctx context.Context, result RaceResult) error {
	if !lm.Enabled() {
		return nil
	}

	stats, err := lm.GetPlayerStats(ctx, result.PlayerName)
	if err != nil {
		return err
	}
	now := lm.now()
	if stats == nil {
		stats = &PlayerStats{CreatedAt: now.Unix()}
	}

	stats.PlayerName = result.PlayerName
	stats.TotalRaces++
	stats.TotalDistance += result.Distance
	stats.BestDistance = max(stats.BestDistance, result.Distance)
	stats.LastPlayedAt = now.Unix()
	updateWinLossStats(stats, result.Won)

	gained := result.Distance / DistancePerPt
	if result.Won {
		gained += WinBonus + calculateStreakBonus(stats.CurrentStreak)
	}
	stats.Score += gained

	if err := lm.savePlayerStats(ctx, stats); err != nil {
		return err
	}
	return lm.updateLeaderboard(ctx, stats, gained)
}

// RecordRace 记录整场比赛的全部真人结果
func (lm *LeaderboardManager) RecordRace(ctx context.Context, results []RaceResult) error {
	var errs []error
	for _, r := range results {
		if err := lm.RecordRaceResult(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.PlayerName, err))
		}
	}
	return errors.Join(errs...)
}

func (lm *LeaderboardManager) dailyKey() string {
	return dailyLeaderboard + lm.now().Format("2006-01-02")
}

func (lm *LeaderboardManager) updateLeaderboard(ctx context.Context, stats *PlayerStats, gained int) error {
	member := memberKey(stats.PlayerName)
	if err := lm.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.Score),
		Member: member,
	}).Err(); err != nil {
		return err
	}

	// 每日榜只累计当天得分，保留 2 天
	daily := lm.dailyKey()
	if err := lm.redis.ZIncrBy(ctx, daily, float64(gained), member).Err(); err != nil {
		return err
	}
	return lm.redis.Expire(ctx, daily, 48*time.Hour).Err()
}

// GetLeaderboard 获取总榜（daily=true 时为当日榜）
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int, daily bool) ([]*LeaderboardEntry, error) {
	if !lm.Enabled() || limit <= 0 {
		return nil, nil
	}

	key := leaderboardKey
	if daily {
		key = lm.dailyKey()
	}

	results, err := lm.redis.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(results))
	for _, result := range results {
		member, _ := result.Member.(string)
		stats, err := lm.GetPlayerStats(ctx, member)
		if err != nil || stats == nil {
			continue
		}

		winRate := 0.0
		if stats.TotalRaces > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalRaces) * 100
		}

		entries = append(entries, &LeaderboardEntry{
			Rank:         len(entries) + 1,
			PlayerName:   stats.PlayerName,
			Score:        int(result.Score),
			Wins:         stats.Wins,
			TotalRaces:   stats.TotalRaces,
			WinRate:      winRate,
			BestDistance: stats.BestDistance,
		})
	}
	return entries, nil
}

// GetPlayerRank 获取玩家总榜排名，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerName string) (int64, error) {
	if !lm.Enabled() {
		return -1, nil
	}

	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, memberKey(playerName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}
