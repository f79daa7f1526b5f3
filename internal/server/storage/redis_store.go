package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "race:room:"

	defaultRoomExpiration = 2 * time.Hour
)

// RoomData 房间摘要（只做外部可见的镜像，不用于恢复比赛）
type RoomData struct {
	ID           string       `json:"id"`
	State        string       `json:"state"`
	GoalDistance int          `json:"goal_distance"`
	Players      []PlayerData `json:"players"`
	WinnerName   string       `json:"winner_name,omitempty"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
}

// PlayerData 玩家摘要
type PlayerData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsBot    bool   `json:"is_bot"`
	Online   bool   `json:"online"`
	Position int    `json:"position"`
}

// RedisStore Redis 存储，client 为 nil 时所有操作都是空操作
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, expiration: defaultRoomExpiration}
}

// WithExpiration 设置房间镜像过期时间
func (rs *RedisStore) WithExpiration(d time.Duration) *RedisStore {
	if d > 0 {
		rs.expiration = d
	}
	return rs
}

// Enabled 是否连接了 Redis
func (rs *RedisStore) Enabled() bool {
	return rs != nil && rs.client != nil
}

// --- 房间镜像 ---

// SaveRoom 保存房间摘要
func (rs *RedisStore) SaveRoom(ctx context.Context, data *RoomData) error {
	if !rs.Enabled() || data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}
	return rs.client.Set(ctx, roomKeyPrefix+data.ID, jsonData, rs.expiration).Err()
}

// LoadRoom 读取房间摘要，不存在时返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, id string) (*RoomData, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	data, err := rs.client.Get(ctx, roomKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}
	return &roomData, nil
}

// DeleteRoom 删除房间摘要
func (rs *RedisStore) DeleteRoom(ctx context.Context, id string) error {
	if !rs.Enabled() {
		return nil
	}
	return rs.client.Del(ctx, roomKeyPrefix+id).Err()
}

// GetAllRoomIDs 获取所有镜像中的房间号
func (rs *RedisStore) GetAllRoomIDs(ctx context.Context) ([]string, error) {
	if !rs.Enabled() {
		return nil, nil
	}

	var ids []string
	iter := rs.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(roomKeyPrefix):])
	}
	return ids, iter.Err()
}

// ClearRooms 启动时清理上一个进程留下的镜像，返回清理数量
func (rs *RedisStore) ClearRooms(ctx context.Context) (int, error) {
	ids, err := rs.GetAllRoomIDs(ctx)
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKeyPrefix + id
	}
	if err := rs.client.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
