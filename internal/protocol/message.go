package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgJoinRoom   MessageType = "join_room"   // 加入房间（不存在则创建，比赛中同名则重连）
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间
	MsgQuickMatch MessageType = "quick_match" // 快速匹配
	MsgStartGame  MessageType = "start_game"  // 开始比赛

	// 比赛操作
	MsgPlayCard    MessageType = "play_card"    // 出牌
	MsgDiscardCard MessageType = "discard_card" // 弃牌

	// 大厅
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
	MsgGetRoomList    MessageType = "get_room_list"   // 获取房间列表
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomJoined MessageType = "room_joined" // 加入房间成功
	MsgPlayerList MessageType = "player_list" // 等待中的玩家名单
	MsgRoomList   MessageType = "room_list"   // 房间列表（大厅推送与拉取共用）
	MsgRoomClosed MessageType = "room_closed" // 房间被关闭

	// 比赛流程
	MsgGameState     MessageType = "game_state"     // 每位玩家各自的状态快照
	MsgLog           MessageType = "log"            // 文字播报
	MsgHazardApplied MessageType = "hazard_applied" // 路障生效
	MsgSafetyPlayed  MessageType = "safety_played"  // 打出安全牌

	// 排行榜
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
