package server

import (
	"time"

	"github.com/palemoky/road-race/internal/protocol"
)

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastToLobby 广播消息给大厅玩家（未在房间内的连接）
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if client.GetRoom() == "" {
			client.SendMessage(msg)
		}
	}
}

// lobbyPulse 定期向大厅重推房间列表，弥补丢弃的推送
func (s *Server) lobbyPulse() {
	interval := s.config.Server.LobbyBroadcastDuration()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.roomManager.BroadcastRoomList()
		case <-s.done:
			return
		}
	}
}
