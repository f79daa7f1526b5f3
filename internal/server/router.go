package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/server/handler"
)

const apiTimeout = 3 * time.Second

// newRouter 注册 WebSocket 入口与只读 HTTP 接口
func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/ws", s.handleWebSocket)
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/rooms", s.handleRooms)
	api.GET("/leaderboard", s.handleLeaderboard)

	return r
}

// requestLogger 用 logrus 记录 HTTP 请求
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"ip":      c.ClientIP(),
		}).Debug("http")
	}
}

// handleHealth 健康检查
func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	state := "ok"
	if s.IsMaintenanceMode() {
		status = http.StatusServiceUnavailable
		state = "maintenance"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"online":       s.GetOnlineCount(),
		"active_games": s.roomManager.GetActiveGamesCount(),
	})
}

// handleRooms 等待中的房间列表
func (s *Server) handleRooms(c *gin.Context) {
	c.JSON(http.StatusOK, protocol.RoomListPayload{Rooms: s.roomManager.GetRoomList()})
}

// handleLeaderboard 排行榜，limit 非法时使用默认值
func (s *Server) handleLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), apiTimeout)
	defer cancel()

	entries, err := handler.LeaderboardEntries(ctx, s.leaderboard, limit)
	if err != nil {
		s.log.WithError(err).Warn("获取排行榜失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, protocol.LeaderboardResultPayload{Entries: entries})
}
