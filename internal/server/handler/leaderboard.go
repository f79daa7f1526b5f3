package handler

import (
	"context"
	"time"

	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/server/storage"
	"github.com/palemoky/road-race/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	leaderboardTimeout      = 3 * time.Second
)

// LeaderboardLimit 规范化排行榜条数
func LeaderboardLimit(limit int) int {
	if limit <= 0 || limit > maxLeaderboardLimit {
		return defaultLeaderboardLimit
	}
	return limit
}

// LeaderboardEntries 读取排行榜并转换为协议格式，未启用 Redis 时返回空列表
func LeaderboardEntries(ctx context.Context, lm *storage.LeaderboardManager, limit int) ([]protocol.LeaderboardEntry, error) {
	entries, err := lm.GetLeaderboard(ctx, LeaderboardLimit(limit), false)
	if err != nil {
		return nil, err
	}

	out := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, protocol.LeaderboardEntry{
			Rank:         e.Rank,
			PlayerName:   e.PlayerName,
			Score:        e.Score,
			Wins:         e.Wins,
			TotalRaces:   e.TotalRaces,
			WinRate:      e.WinRate,
			BestDistance: e.BestDistance,
		})
	}
	return out, nil
}

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		// 默认获取前 10
		payload = &protocol.GetLeaderboardPayload{Limit: defaultLeaderboardLimit}
	}

	ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
	defer cancel()

	entries, err := LeaderboardEntries(ctx, h.leaderboard, payload.Limit)
	if err != nil {
		h.log.WithError(err).Warn("获取排行榜失败")
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取排行榜失败"))
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: entries,
	}))
}
