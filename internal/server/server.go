// Package server 提供 HTTP/WebSocket 接入层：gin 路由、连接读写泵、
// 连接与消息限流、大厅推送以及优雅关闭。
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/config"
	"github.com/palemoky/road-race/internal/game/match"
	"github.com/palemoky/road-race/internal/game/room"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/scheduler"
	"github.com/palemoky/road-race/internal/server/handler"
	"github.com/palemoky/road-race/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redis       *redis.Client // 未启用 Redis 时为 nil
	redisStore  *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	sched       *scheduler.TimerScheduler
	roomManager *room.RoomManager
	matcher     *match.Matcher
	handler     *handler.Handler
	log         *logrus.Entry

	clients   map[string]*Client
	clientsMu sync.RWMutex

	upgrader       websocket.Upgrader
	router         *gin.Engine
	httpServer     *http.Server
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 信号量控制并发连接数
	semaphore chan struct{}

	// 维护模式下拒绝新连接
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	done     chan struct{}
	stopOnce sync.Once
}

// NewServer 创建服务器实例，rdb 为 nil 时排行榜与房间镜像均为空操作
func NewServer(cfg *config.Config, rdb *redis.Client) *Server {
	log := logger.Component("server")

	s := &Server{
		config:      cfg,
		redis:       rdb,
		redisStore:  storage.NewRedisStore(rdb).WithExpiration(cfg.Redis.RoomTTLDuration()),
		leaderboard: storage.NewLeaderboardManager(rdb),
		sched:       scheduler.New(),
		log:         log,
		clients:     make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
			log,
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		done:           make(chan struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	s.roomManager = room.NewRoomManager(room.Deps{
		Server:      s,
		Store:       s.redisStore,
		Leaderboard: s.leaderboard,
		Rules:       room.RulesFromConfig(cfg.Game),
		Scheduler:   s.sched,
		Logger:      logger.Component("room"),
	})
	s.matcher = match.NewMatcher(match.MatcherDeps{RoomManager: s.roomManager})
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
		Matcher:     s.matcher,
		Leaderboard: s.leaderboard,
	})
	s.router = s.newRouter()

	log.WithFields(logrus.Fields{
		"conn_limit":      cfg.Security.RateLimit.MaxPerSecond,
		"message_limit":   cfg.Security.MessageLimit.MaxPerSecond,
		"max_connections": cfg.Server.MaxConnections,
		"redis":           rdb != nil,
	}).Info("🔒 服务器初始化完成")

	return s
}

// Handler 返回 HTTP 处理器（测试中配合 httptest 使用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// RoomManager 房间注册表
func (s *Server) RoomManager() *room.RoomManager {
	return s.roomManager
}

// Start 启动 HTTP 服务与后台任务，阻塞直到服务停止
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		IdleTimeout:       60 * time.Second,
	}

	go s.lobbyPulse()
	go s.monitorStats()

	s.log.WithField("cpus", runtime.NumCPU()).Infof("🚀 服务器启动在 ws://%s/ws", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收新连接，关闭所有房间与连接，最后释放 Redis
func (s *Server) Shutdown(ctx context.Context) error {
	s.EnterMaintenanceMode()

	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}

		// 先关房间，玩家能收到 room_closed
		s.roomManager.Close()
		s.sched.Stop()
		s.rateLimiter.Stop()
		s.closeAllClients()

		if s.redis != nil {
			if cerr := s.redis.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
		s.log.Info("👋 服务器已关闭")
	})
	return err
}
