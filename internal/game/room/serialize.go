package room

import (
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/server/storage"
)

// Info 房间列表项
func (r *Room) Info() protocol.RoomListItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	return protocol.RoomListItem{
		RoomID:       r.ID,
		PlayerCount:  len(r.players),
		MaxPlayers:   r.rules.MaxPlayers,
		GoalDistance: r.Goal,
	}
}

// ToRoomData 转换为 Redis 镜像
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := &storage.RoomData{
		ID:           r.ID,
		State:        r.state.String(),
		GoalDistance: r.Goal,
		Players:      make([]storage.PlayerData, 0, len(r.players)),
		CreatedAt:    r.CreatedAt.Unix(),
		UpdatedAt:    r.clock().Unix(),
	}
	for _, p := range r.orderedPlayers() {
		data.Players = append(data.Players, storage.PlayerData{
			ID:       p.ID,
			Name:     p.Name,
			IsBot:    p.IsBot,
			Online:   p.IsBot || p.Client != nil,
			Position: p.Position,
		})
	}
	if r.winner != nil {
		data.WinnerName = r.winner.Name
	}
	return data
}

// RaceResults 真人玩家的比赛结果，只有产生冠军的比赛才计入排行榜
func (r *Room) RaceResults() []storage.RaceResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RoomStateFinished || r.winner == nil {
		return nil
	}

	var results []storage.RaceResult
	for _, p := range r.orderedPlayers() {
		if p.IsBot {
			continue
		}
		results = append(results, storage.RaceResult{
			PlayerName: p.Name,
			Distance:   p.Position,
			Won:        p == r.winner,
		})
	}
	return results
}
