// Package types 放置 game 与 server 之间共享的接口，避免循环依赖。
package types

import (
	"github.com/palemoky/road-race/internal/protocol"
)

// ServerInterface 房间注册表看到的服务器：只需要在线数与大厅推送
type ServerInterface interface {
	GetOnlineCount() int
	// BroadcastToLobby 发给所有不在房间内的连接
	BroadcastToLobby(msg *protocol.Message)
}

// ClientInterface 一条玩家连接
type ClientInterface interface {
	GetID() string   // 连接 ID，重连后会变化
	GetName() string // 服务端分配的昵称
	GetRoom() string
	SetRoom(roomID string) // 空字符串表示回到大厅
	SendMessage(msg *protocol.Message)
	Close()
}
