package server

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

const monitorInterval = 30 * time.Second

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			s.log.WithFields(logrus.Fields{
				"online":       s.GetOnlineCount(),
				"active_games": s.roomManager.GetActiveGamesCount(),
				"goroutines":   runtime.NumGoroutine(),
				"connections":  len(s.semaphore),
				"mem_mb":       float64(m.Alloc) / 1024 / 1024,
			}).Info("📊 [监控]")
		case <-s.done:
			return
		}
	}
}

// EnterMaintenanceMode 进入维护模式，拒绝新连接
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()

	if !s.maintenanceMode {
		s.maintenanceMode = true
		s.log.Info("🔧 进入维护模式：停止接收新连接")
	}
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// WaitForGames 等待进行中的比赛结束，超时返回 false
func (s *Server) WaitForGames(timeout, poll time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		active := s.roomManager.GetActiveGamesCount()
		if active == 0 {
			return true
		}
		if time.Now().After(deadline) {
			s.log.WithField("active_games", active).Warn("⚠️ 等待超时，强制关闭进行中的比赛")
			return false
		}
		s.log.WithField("active_games", active).Info("⏳ 等待比赛结束...")
		time.Sleep(poll)
	}
}

// closeAllClients 关闭所有连接的发送队列
func (s *Server) closeAllClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		c.Close()
	}
}
