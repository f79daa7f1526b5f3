package room

import (
	"cmp"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/scheduler"
	"github.com/palemoky/road-race/internal/server/storage"
	"github.com/palemoky/road-race/internal/types"
)

const (
	roomCodeLength  = 6            // 房间号长度
	roomCodeChars   = "0123456789" // 房间号字符集
	maxRoomIDLength = 32
	joinAttempts    = 3 // 房间恰好被关闭时的重试次数
	cleanupInterval = time.Minute
)

// Deps 注册表依赖，Server/Store/Leaderboard 可以为 nil
type Deps struct {
	Server      types.ServerInterface
	Store       *storage.RedisStore
	Leaderboard *storage.LeaderboardManager
	Rules       Rules
	Scheduler   scheduler.Scheduler
	Logger      *logrus.Entry
	Seed        func() *rand.Rand // 为每个房间提供随机源
	Clock       func() time.Time
}

// RoomManager 房间注册表
type RoomManager struct {
	server      types.ServerInterface
	store       *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	rules       Rules
	sched       scheduler.Scheduler
	log         *logrus.Entry
	seed        func() *rand.Rand
	clock       func() time.Time

	rooms     map[string]*Room
	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewRoomManager 创建房间管理器并启动过期房间清理
func NewRoomManager(deps Deps) *RoomManager {
	if deps.Rules.MaxPlayers == 0 {
		deps.Rules = DefaultRules()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Component("room")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	rm := &RoomManager{
		server:      deps.Server,
		store:       deps.Store,
		leaderboard: deps.Leaderboard,
		rules:       deps.Rules,
		sched:       deps.Scheduler,
		log:         deps.Logger,
		seed:        deps.Seed,
		clock:       deps.Clock,
		rooms:       make(map[string]*Room),
		done:        make(chan struct{}),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// Rules 当前规则
func (rm *RoomManager) Rules() Rules {
	return rm.rules
}

// JoinRoom 加入房间，房间不存在时创建。roomID 为空时生成房间号，goal 只在创建时生效
func (rm *RoomManager) JoinRoom(client types.ClientInterface, name, roomID string, goal int) (*Room, *player.Player, bool, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, nil, false, err
	}
	if roomID != "" && !validRoomID(roomID) {
		return nil, nil, false, apperrors.ErrInvalidRoomID
	}

	// 已在其他房间：先确认能加入目标房间再离开，被拒绝时原房间不受影响
	if cur := client.GetRoom(); cur != "" && cur != roomID {
		if err := rm.admits(client, name, roomID, goal); err != nil {
			return nil, nil, false, err
		}
		_ = rm.LeaveRoom(client)
	}

	for range joinAttempts {
		room, created, err := rm.getOrCreate(roomID, goal)
		if err != nil {
			return nil, nil, false, err
		}

		p, reconnected, err := room.Join(client, name)
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			if created {
				rm.removeRoom(room, "")
			}
			return nil, nil, false, err
		}
		return room, p, reconnected, nil
	}
	return nil, nil, false, apperrors.ErrRoomNotFound
}

// admits 预检加入，不创建也不修改房间
func (rm *RoomManager) admits(client types.ClientInterface, name, roomID string, goal int) error {
	if r := rm.GetRoom(roomID); r != nil {
		return r.admits(client, name)
	}
	if goal > 0 && !rm.rules.ValidGoal(goal) {
		return apperrors.ErrInvalidGoal
	}
	return nil
}

func (rm *RoomManager) getOrCreate(roomID string, goal int) (*Room, bool, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if roomID == "" {
		roomID = rm.generateRoomCode()
	}
	if r, ok := rm.rooms[roomID]; ok {
		return r, false, nil
	}

	if goal <= 0 {
		goal = rm.rules.DefaultGoal
	} else if !rm.rules.ValidGoal(goal) {
		return nil, false, apperrors.ErrInvalidGoal
	}

	opts := Options{
		Rules:     rm.rules,
		Scheduler: rm.sched,
		Hooks:     rm,
		Logger:    rm.log,
		Clock:     rm.clock,
	}
	if rm.seed != nil {
		opts.Rand = rm.seed()
	}
	r := New(roomID, goal, opts)
	rm.rooms[roomID] = r

	rm.log.WithFields(logrus.Fields{"room": roomID, "goal": goal}).Info("🏠 房间已创建")
	return r, true, nil
}

// StartGame 开始比赛
func (rm *RoomManager) StartGame(client types.ClientInterface) error {
	r, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	return r.Start(client.GetID())
}

// PlayCard 出牌
func (rm *RoomManager) PlayCard(client types.ClientInterface, handIndex int, targetID string) (Outcome, error) {
	r, err := rm.actionRoom(client)
	if err != nil {
		return OutcomeNone, err
	}
	return r.PlayCard(client.GetID(), handIndex, targetID)
}

// Discard 弃牌
func (rm *RoomManager) Discard(client types.ClientInterface, handIndex int) error {
	r, err := rm.actionRoom(client)
	if err != nil {
		return err
	}
	return r.Discard(client.GetID(), handIndex)
}

// LeaveRoom 主动离开当前房间
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) error {
	r, err := rm.roomOf(client)
	if err != nil {
		return err
	}
	return r.Leave(client.GetID())
}

// Disconnect 连接断开
func (rm *RoomManager) Disconnect(client types.ClientInterface) {
	r, err := rm.roomOf(client)
	if err != nil {
		return
	}
	r.Disconnect(client.GetID())
}

func (rm *RoomManager) roomOf(client types.ClientInterface) (*Room, error) {
	roomID := client.GetRoom()
	if roomID == "" {
		return nil, apperrors.ErrNotInRoom
	}
	r := rm.GetRoom(roomID)
	if r == nil {
		client.SetRoom("")
		return nil, apperrors.ErrNotInRoom
	}
	return r, nil
}

// actionRoom 出牌类命令的房间查找。房间已拆除时命令按过期处理，不回错误
func (rm *RoomManager) actionRoom(client types.ClientInterface) (*Room, error) {
	r, err := rm.roomOf(client)
	if errors.Is(err, apperrors.ErrNotInRoom) {
		return nil, apperrors.ErrStale
	}
	return r, err
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(roomID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[roomID]
}

func (rm *RoomManager) snapshot() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]*Room, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		rooms = append(rooms, r)
	}
	slices.SortFunc(rooms, func(a, b *Room) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return rooms
}

// GetRoomList 获取等待中的房间列表
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	list := make([]protocol.RoomListItem, 0)
	for _, r := range rm.snapshot() {
		if r.State() == RoomStateWaiting {
			list = append(list, r.Info())
		}
	}
	return list
}

// FindOpenRoom 人数最多且仍有空位的等待中房间，人数相同时取最早创建的
func (rm *RoomManager) FindOpenRoom() *Room {
	var best *Room
	bestCount := -1
	for _, r := range rm.snapshot() {
		if r.State() != RoomStateWaiting {
			continue
		}
		n := r.PlayerCount()
		if n >= rm.rules.MaxPlayers {
			continue
		}
		if n > bestCount {
			best, bestCount = r, n
		}
	}
	return best
}

// GetActiveGamesCount 进行中的比赛数量
func (rm *RoomManager) GetActiveGamesCount() int {
	count := 0
	for _, r := range rm.snapshot() {
		if r.State() == RoomStatePlaying {
			count++
		}
	}
	return count
}

// BroadcastRoomList 向大厅推送房间列表
func (rm *RoomManager) BroadcastRoomList() {
	if rm.server == nil {
		return
	}
	rm.server.BroadcastToLobby(codec.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
		Rooms: rm.GetRoomList(),
	}))
}

// --- Hooks ---

// RoomChanged 镜像到 Redis 并刷新大厅列表
func (rm *RoomManager) RoomChanged(r *Room) {
	rm.persist(r)
	rm.BroadcastRoomList()
}

// RoomFinished 记录排行榜，并在保留期后关闭房间
func (rm *RoomManager) RoomFinished(r *Room) {
	if results := r.RaceResults(); len(results) > 0 && rm.leaderboard.Enabled() {
		go func() {
			if err := rm.leaderboard.RecordRace(context.Background(), results); err != nil {
				rm.log.WithError(err).WithField("room", r.ID).Warn("⚠️ 记录排行榜失败")
			}
		}()
	}
	rm.persist(r)
	rm.BroadcastRoomList()

	rm.sched.Schedule(teardownKey(r.ID), rm.rules.FinishedCleanup, func() {
		rm.removeRoom(r, "比赛结束，房间已关闭")
	})
}

// RoomEmpty 没有在线真人，立即移除
func (rm *RoomManager) RoomEmpty(r *Room) {
	rm.removeRoom(r, "房间已解散")
}

func teardownKey(roomID string) string {
	return "teardown:" + roomID
}

func (rm *RoomManager) persist(r *Room) {
	if !rm.store.Enabled() {
		return
	}
	data := r.ToRoomData()
	go func() {
		if err := rm.store.SaveRoom(context.Background(), data); err != nil {
			rm.log.WithError(err).WithField("room", data.ID).Warn("⚠️ 保存房间失败")
		}
	}()
}

// removeRoom 从注册表移除并关闭房间，房间号已被新房间占用时不做处理
func (rm *RoomManager) removeRoom(r *Room, reason string) {
	rm.mu.Lock()
	if cur, ok := rm.rooms[r.ID]; !ok || cur != r {
		rm.mu.Unlock()
		return
	}
	delete(rm.rooms, r.ID)
	rm.mu.Unlock()

	rm.sched.Cancel(teardownKey(r.ID))
	r.Close(reason)

	if rm.store.Enabled() {
		go func() {
			if err := rm.store.DeleteRoom(context.Background(), r.ID); err != nil {
				rm.log.WithError(err).WithField("room", r.ID).Warn("⚠️ 删除房间镜像失败")
			}
		}()
	}

	rm.log.WithField("room", r.ID).Info("🏠 房间已移除")
	rm.BroadcastRoomList()
}

// generateRoomCode 生成未被占用的房间号，调用方需持有写锁
func (rm *RoomManager) generateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for {
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		if _, exists := rm.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}

// validRoomID 房间号只允许字母、数字、- 和 _
func validRoomID(id string) bool {
	if len(id) == 0 || len(id) > maxRoomIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.cleanup()
		case <-rm.done:
			return
		}
	}
}

// cleanup 移除等待超时的房间
func (rm *RoomManager) cleanup() {
	now := rm.clock()
	for _, r := range rm.snapshot() {
		if r.State() == RoomStateWaiting && now.Sub(r.CreatedAt) > rm.rules.RoomTimeout {
			rm.log.WithField("room", r.ID).Info("🧹 清理超时房间")
			rm.removeRoom(r, "房间超时已关闭")
		}
	}
}

// Close 停止清理协程并关闭所有房间
func (rm *RoomManager) Close() {
	rm.closeOnce.Do(func() {
		close(rm.done)
		for _, r := range rm.snapshot() {
			rm.removeRoom(r, "服务器正在关闭")
		}
	})
}
