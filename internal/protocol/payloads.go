package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	PlayerName   string `json:"player_name"`
	RoomID       string `json:"room_id"`
	GoalDistance int    `json:"goal_distance,omitempty"` // 仅创建房间时生效
}

// QuickMatchPayload 快速匹配请求
type QuickMatchPayload struct {
	PlayerName string `json:"player_name"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	HandIndex int    `json:"hand_index"`
	TargetID  string `json:"target_id,omitempty"` // 路障牌必填
}

// DiscardCardPayload 弃牌请求
type DiscardCardPayload struct {
	HandIndex int `json:"hand_index"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
	PlayerName   string `json:"player_name"` // 服务端建议的昵称
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomID       string `json:"room_id"`
	PlayerID     string `json:"player_id"` // 房间内稳定的玩家 ID
	GoalDistance int    `json:"goal_distance"`
	Reconnected  bool   `json:"reconnected"`
}

// PlayerListPayload 等待阶段名单
type PlayerListPayload struct {
	RoomID  string         `json:"room_id"`
	Players []PlayerPublic `json:"players"`
}

// RoomClosedPayload 房间关闭通知
type RoomClosedPayload struct {
	RoomID string `json:"room_id"`
	Reason string `json:"reason"`
}

// LogPayload 文字播报
type LogPayload struct {
	Message string `json:"message"`
}

// HazardAppliedPayload 路障生效通知
type HazardAppliedPayload struct {
	AttackerID     string `json:"attacker_id"`
	AttackerName   string `json:"attacker_name"`
	AttackerMarker string `json:"attacker_marker"`
	TargetID       string `json:"target_id"`
	Hazard         string `json:"hazard"`
	Remedy         string `json:"remedy"` // 解除所需的修复牌
}

// SafetyPlayedPayload 安全牌通知
type SafetyPlayedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Marker     string `json:"marker"`
	Safety     string `json:"safety"`
}

// GameStatePayload 单个玩家视角的状态快照
type GameStatePayload struct {
	RoomID          string         `json:"room_id"`
	State           string         `json:"state"` // waiting/playing/finished
	Me              *PlayerPrivate `json:"me,omitempty"`
	Opponents       []PlayerPublic `json:"opponents"`
	CurrentPlayerID string         `json:"current_player_id,omitempty"`
	WinnerID        string         `json:"winner_id,omitempty"`
	WinnerName      string         `json:"winner_name,omitempty"`
	GoalDistance    int            `json:"goal_distance"`
	TurnStart       int64          `json:"turn_start"`    // 毫秒时间戳
	TurnDuration    int64          `json:"turn_duration"` // 毫秒
	DrawPile        int            `json:"draw_pile"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerName   string  `json:"player_name"`
	Score        int     `json:"score"`
	Wins         int     `json:"wins"`
	TotalRaces   int     `json:"total_races"`
	WinRate      float64 `json:"win_rate"`
	BestDistance int     `json:"best_distance"` // 单场最远距离
}

// RoomListPayload 房间列表
type RoomListPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// RoomListItem 房间列表项
type RoomListItem struct {
	RoomID       string `json:"room_id"`
	PlayerCount  int    `json:"player_count"`
	MaxPlayers   int    `json:"max_players"`
	GoalDistance int    `json:"goal_distance"`
}

// --- 通用数据结构 ---

// PlayerPublic 所有人可见的玩家信息
type PlayerPublic struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	IsBot        bool     `json:"is_bot"`
	Online       bool     `json:"online"`
	Marker       string   `json:"marker,omitempty"`
	Position     int      `json:"position"`
	HandSize     int      `json:"hand_size"`
	Hazards      []string `json:"hazards"`
	Safeties     []string `json:"safeties"`
	SpeedLimited bool     `json:"speed_limited"`
	MustPlayGo   bool     `json:"must_play_go"`
	CanMove      bool     `json:"can_move"`
}

// PlayerPrivate 仅本人可见（含手牌）
type PlayerPrivate struct {
	PlayerPublic
	Hand []CardInfo `json:"hand"`
}

// CardInfo 牌信息
type CardInfo struct {
	ID       int    `json:"id"`
	Kind     string `json:"kind"`               // movement/hazard/remedy/safety
	Distance int    `json:"distance,omitempty"` // 仅距离牌
	Name     string `json:"name,omitempty"`     // 路障/修复/安全类型
}
