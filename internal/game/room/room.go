// Package room 实现比赛房间：加入与重连、回合推进、出牌校验、机器人与计时器。
//
// 房间内所有状态由 Room.mu 保护，命令与计时器回调都先获取该锁。
// 对注册表的回调（Hooks）在持锁期间入队，释放锁之后才执行。
package room

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/scheduler"
)

// Hooks 房间通知注册表的回调，调用时不持有房间锁
type Hooks interface {
	RoomChanged(r *Room)  // 成员或状态变化
	RoomFinished(r *Room) // 比赛结束
	RoomEmpty(r *Room)    // 没有在线真人
}

type nopHooks struct{}

func (nopHooks) RoomChanged(*Room)  {}
func (nopHooks) RoomFinished(*Room) {}
func (nopHooks) RoomEmpty(*Room)    {}

// Options 房间依赖，零值字段使用默认实现
type Options struct {
	Rules     Rules
	Scheduler scheduler.Scheduler
	Hooks     Hooks
	Logger    *logrus.Entry
	Clock     func() time.Time
	Rand      *rand.Rand
}

// Room 比赛房间
type Room struct {
	ID        string
	Goal      int
	CreatedAt time.Time

	mu           sync.Mutex
	state        RoomState
	players      map[string]*player.Player // 以 Player.ID 为键
	seats        []string                  // 加入顺序
	turnOrder    []string                  // 开局后的出牌顺序
	current      int
	winner       *player.Player
	deck         *card.Deck
	turnStart    time.Time
	turnDuration time.Duration
	turnSeq      uint64

	rules   Rules
	sched   scheduler.Scheduler
	clock   func() time.Time
	rng     *rand.Rand
	log     *logrus.Entry
	hooks   Hooks
	pending []func()
	closed  bool
}

// New 创建房间，goal <= 0 时使用默认目标距离
func New(id string, goal int, opts Options) *Room {
	if opts.Rules.MaxPlayers == 0 {
		opts.Rules = DefaultRules()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New()
	}
	if opts.Hooks == nil {
		opts.Hooks = nopHooks{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Component("room")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if goal <= 0 {
		goal = opts.Rules.DefaultGoal
	}

	return &Room{
		ID:        id,
		Goal:      goal,
		CreatedAt: opts.Clock(),
		state:     RoomStateWaiting,
		players:   make(map[string]*player.Player),
		rules:     opts.Rules,
		sched:     opts.Scheduler,
		clock:     opts.Clock,
		rng:       opts.Rand,
		log:       opts.Logger.WithField("room", id),
		hooks:     opts.Hooks,
	}
}

// ValidateName 去除首尾空白并检查长度（1-20 个字符）
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxNameLength {
		return "", apperrors.ErrInvalidName
	}
	return name, nil
}

// unlock 释放房间锁并执行排队的回调
func (r *Room) unlock() {
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// after 登记一个在释放锁后执行的回调
func (r *Room) after(fn func()) {
	r.pending = append(r.pending, fn)
}

func (r *Room) timerKey() string {
	return "turn:" + r.ID
}

// State 当前房间状态
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PlayerCount 房间内的玩家数（含机器人）
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Winner 冠军，未结束或无人到达终点时为 nil
func (r *Room) Winner() *player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

// IsClosed 房间是否已被注册表关闭
func (r *Room) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Room) playerByConn(connID string) *player.Player {
	if connID == "" {
		return nil
	}
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) playerByName(name string) *player.Player {
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (r *Room) currentPlayer() *player.Player {
	if r.current < 0 || r.current >= len(r.turnOrder) {
		return nil
	}
	return r.players[r.turnOrder[r.current]]
}

func (r *Room) orderIndex(id string) int {
	for i, pid := range r.turnOrder {
		if pid == id {
			return i
		}
	}
	return -1
}

func (r *Room) humanCount() int {
	n := 0
	for _, p := range r.players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

func (r *Room) connectedHumans() int {
	n := 0
	for _, p := range r.players {
		if p.IsConnected() {
			n++
		}
	}
	return n
}

// orderedPlayers 按出牌顺序（未开局时按加入顺序）返回玩家
func (r *Room) orderedPlayers() []*player.Player {
	ids := r.seats
	if len(r.turnOrder) > 0 {
		ids = r.turnOrder
	}
	out := make([]*player.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
