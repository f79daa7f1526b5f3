package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/road-race/internal/config"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/server"
	"github.com/palemoky/road-race/internal/server/storage"
)

const (
	redisPingTimeout  = 5 * time.Second
	shutdownPollEvery = time.Second
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	log := logger.Component("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Warn("加载配置文件失败，使用默认配置")
		cfg = config.Default()
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.WithError(err).Fatal("初始化日志失败")
	}
	defer logger.Close()

	rdb := connectRedis(cfg.Redis)
	srv := server.NewServer(cfg, rdb)

	go func() {
		log.Info("🏁 赛车服务器启动中...")
		if err := srv.Start(); err != nil {
			log.WithError(err).Fatal("服务器启动失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")
	srv.EnterMaintenanceMode()
	srv.WaitForGames(cfg.Server.ShutdownTimeoutDuration(), shutdownPollEvery)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("关闭过程中出现错误")
	}
}

// connectRedis 连接 Redis 并清理上次运行遗留的房间镜像；未启用或连接失败时返回 nil
func connectRedis(cfg config.RedisConfig) *redis.Client {
	log := logger.Component("main")
	if !cfg.Enabled {
		log.Info("Redis 未启用，排行榜不可用")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Addr).Warn("Redis 连接失败，排行榜不可用")
		_ = rdb.Close()
		return nil
	}

	if n, err := storage.NewRedisStore(rdb).ClearRooms(ctx); err != nil {
		log.WithError(err).Warn("清理遗留房间失败")
	} else if n > 0 {
		log.WithField("rooms", n).Info("🧹 已清理遗留房间镜像")
	}
	return rdb
}
