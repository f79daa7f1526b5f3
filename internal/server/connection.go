package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
)

// handleWebSocket 校验并升级连接，?codec=binary 选择二进制帧
func (s *Server) handleWebSocket(c *gin.Context) {
	ip := GetClientIP(c.Request)
	log := s.log.WithField("ip", ip)

	if s.IsMaintenanceMode() {
		log.Info("🔧 维护模式，拒绝新连接")
		c.String(http.StatusServiceUnavailable, "Server is under maintenance, please try again later")
		return
	}

	if !s.originChecker.Check(c.Request) {
		log.WithField("origin", c.GetHeader("Origin")).Warn("🚫 来源验证失败")
		c.String(http.StatusForbidden, "Origin not allowed")
		return
	}

	if !s.rateLimiter.Allow(ip) {
		log.Warn("🚫 连接过于频繁")
		c.String(http.StatusTooManyRequests, "Too Many Requests")
		return
	}

	// 连接槽位在 ReadPump 退出时归还
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.WithField("max", cap(s.semaphore)).Warn("🚫 达到最大连接数")
		c.String(http.StatusServiceUnavailable, "Server Full")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		<-s.semaphore
		log.WithError(err).Warn("WebSocket 升级失败")
		return
	}

	client := NewClient(s, conn, codec.ParseFormat(c.Query("codec")), ip)
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
		PlayerName:   client.Name,
	}))
	client.log.WithFields(logrus.Fields{
		"player": client.Name,
		"codec":  client.format.String(),
	}).Info("✅ 玩家已连接")

	go client.WritePump()
	go client.ReadPump()
}

// handleDisconnect 连接断开：通知房间、清理限流记录并注销
func (s *Server) handleDisconnect(c *Client) {
	s.handler.OnDisconnect(c)
	s.messageLimiter.RemoveClient(c.ID)
	s.unregisterClient(c)
	c.Close()
	<-s.semaphore
}

// registerClient 注册客户端
func (s *Server) registerClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[c.ID] = c
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[c.ID]; ok {
		delete(s.clients, c.ID)
		c.log.WithField("player", c.Name).Info("❌ 玩家已断开")
	}
}
