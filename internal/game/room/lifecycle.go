package room

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/types"
)

// Join 加入房间；比赛进行中时按名字重连，返回值 reconnected 表示是否为重连
func (r *Room) Join(client types.ClientInterface, name string) (p *player.Player, reconnected bool, err error) {
	name, err = ValidateName(name)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.unlock()

	// 已被注册表移除，调用方应重新获取房间
	if r.closed {
		return nil, false, apperrors.ErrRoomNotFound
	}

	p, err = r.admission(client, name)
	if err != nil {
		return nil, false, err
	}
	if r.state == RoomStatePlaying {
		r.reconnect(p, client)
		return p, true, nil
	}
	// 重复加入
	if p != nil {
		return p, false, nil
	}
	return r.joinWaiting(client, name), false, nil
}

// admits 只检查能否加入，不修改房间。已关闭的房间交给 Join 重试
func (r *Room) admits(client types.ClientInterface, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	_, err := r.admission(client, name)
	return err
}

// admission 返回该连接应占用的已有座位，nil 表示等待中可新建座位
func (r *Room) admission(client types.ClientInterface, name string) (*player.Player, error) {
	switch r.state {
	case RoomStateWaiting:
		if p := r.playerByConn(client.GetID()); p != nil {
			return p, nil
		}
		if len(r.players) >= r.rules.MaxPlayers {
			return nil, apperrors.ErrRoomFull
		}
		if r.playerByName(name) != nil {
			return nil, apperrors.ErrNameTaken
		}
		return nil, nil
	case RoomStatePlaying:
		var p *player.Player
		for _, candidate := range r.players {
			if !candidate.IsBot && strings.EqualFold(candidate.Name, name) {
				p = candidate
				break
			}
		}
		if p == nil {
			return nil, apperrors.ErrGameStarted
		}
		// 一个连接只能占一个座位
		if bound := r.playerByConn(client.GetID()); bound != nil && bound != p {
			return nil, apperrors.ErrAlreadyInRoom
		}
		return p, nil
	default:
		return nil, apperrors.ErrRoomFinished
	}
}

func (r *Room) joinWaiting(client types.ClientInterface, name string) *player.Player {
	p := player.New(name, client)
	p.Marker = carMarkers[len(r.seats)%len(carMarkers)]
	r.players[p.ID] = p
	r.seats = append(r.seats, p.ID)
	client.SetRoom(r.ID)

	r.log.WithField("player", name).Infof("👤 玩家加入 (%d/%d)", len(r.players), r.rules.MaxPlayers)

	p.Send(r.joinedMessage(p, false))
	r.broadcastPlayerList()
	r.after(func() { r.hooks.RoomChanged(r) })
	return p
}

// reconnect 把真人座位重新绑定到新连接，ID 保持不变
func (r *Room) reconnect(p *player.Player, client types.ClientInterface) {
	if p.ConnID != client.GetID() {
		// 顶替仍在线的旧连接，旧连接之后的断线事件不再影响座位
		if old := p.Client; old != nil {
			old.SetRoom("")
		}
		p.Bind(client)
		client.SetRoom(r.ID)
		r.log.WithField("player", p.Name).Info("🔌 玩家重新连接")
		r.broadcastLog(fmt.Sprintf("🔌 %s 重新连接", p.Name))
	}

	p.Send(r.joinedMessage(p, true))
	r.broadcastState()
}

func (r *Room) joinedMessage(p *player.Player, reconnected bool) *protocol.Message {
	return codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomID:       r.ID,
		PlayerID:     p.ID,
		GoalDistance: r.Goal,
		Reconnected:  reconnected,
	})
}

// Start 开始比赛，只有房间成员可以发起
func (r *Room) Start(connID string) error {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	if r.playerByConn(connID) == nil {
		return apperrors.ErrNotInRoom
	}
	if r.state != RoomStateWaiting {
		return apperrors.ErrGameStarted
	}

	if r.humanCount() == 1 {
		r.fillBots()
	}

	r.deck = card.NewDeck(len(r.seats), r.Goal, r.rng)
	r.turnOrder = slices.Clone(r.seats)
	r.rng.Shuffle(len(r.turnOrder), func(i, j int) {
		r.turnOrder[i], r.turnOrder[j] = r.turnOrder[j], r.turnOrder[i]
	})

	for i, id := range r.turnOrder {
		r.players[id].Marker = carMarkers[i%len(carMarkers)]
	}

	// 发牌
	for range r.rules.HandSize {
		for _, id := range r.turnOrder {
			if c, ok := r.deck.Draw(); ok {
				r.players[id].AddCard(c)
			}
		}
	}

	r.state = RoomStatePlaying
	r.log.WithFields(logrus.Fields{
		"players": len(r.turnOrder),
		"goal":    r.Goal,
		"cards":   r.deck.Total(),
	}).Info("🏁 比赛开始")
	r.broadcastLog(fmt.Sprintf("🏁 比赛开始！目标 %d 公里", r.Goal))
	r.after(func() { r.hooks.RoomChanged(r) })

	r.beginTurn(0)
	return nil
}

// fillBots 单人开局时用机器人补足人数
func (r *Room) fillBots() {
	for _, name := range botNames {
		if len(r.seats) >= r.rules.MinPlayers || len(r.seats) >= r.rules.MaxPlayers {
			return
		}
		if r.playerByName(name) != nil {
			continue
		}
		bot := player.NewBot(name)
		r.players[bot.ID] = bot
		r.seats = append(r.seats, bot.ID)
		r.log.WithField("bot", name).Debug("🤖 机器人入座")
	}
}

// Disconnect 连接断开。等待中移除玩家；比赛中保留座位等待重连
func (r *Room) Disconnect(connID string) {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return
	}
	p := r.playerByConn(connID)
	if p == nil {
		return
	}

	switch r.state {
	case RoomStateWaiting:
		r.removeWaiting(p)
	case RoomStatePlaying:
		p.Unbind()
		r.log.WithField("player", p.Name).Info("📴 玩家断线")
		r.broadcastLog(fmt.Sprintf("📴 %s 断开连接", p.Name))

		if r.connectedHumans() == 0 {
			r.finish(nil)
			return
		}
		if r.currentPlayer() == p {
			r.nextTurn(nil)
			return
		}
		r.broadcastState()
	case RoomStateFinished:
		p.Unbind()
		if r.connectedHumans() == 0 {
			r.after(func() { r.hooks.RoomEmpty(r) })
		}
	}
}

// Leave 主动离开。比赛中离开是永久的：座位、手牌与出牌顺序都会被移除
func (r *Room) Leave(connID string) error {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}
	p := r.playerByConn(connID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}

	switch r.state {
	case RoomStateWaiting:
		r.removeWaiting(p)
	case RoomStatePlaying:
		r.removePlaying(p)
	case RoomStateFinished:
		detach(p, r.ID)
		if r.connectedHumans() == 0 {
			r.after(func() { r.hooks.RoomEmpty(r) })
		}
	}
	return nil
}

// detach 解除玩家与连接的绑定，并清除连接上的房间号
func detach(p *player.Player, roomID string) {
	if p.Client != nil && p.Client.GetRoom() == roomID {
		p.Client.SetRoom("")
	}
	p.Unbind()
}

func (r *Room) removeWaiting(p *player.Player) {
	detach(p, r.ID)
	delete(r.players, p.ID)
	r.seats = slices.DeleteFunc(r.seats, func(id string) bool { return id == p.ID })

	r.log.WithField("player", p.Name).Infof("👋 玩家离开 (%d/%d)", len(r.players), r.rules.MaxPlayers)

	if r.connectedHumans() == 0 {
		r.after(func() { r.hooks.RoomEmpty(r) })
		return
	}
	r.broadcastPlayerList()
	r.after(func() { r.hooks.RoomChanged(r) })
}

func (r *Room) removePlaying(p *player.Player) {
	// 手牌回到弃牌堆，总牌数保持不变
	r.deck.Discard(p.Hand...)
	p.Hand = nil

	idx := r.orderIndex(p.ID)
	wasCurrent := idx == r.current
	cur := r.currentPlayer()
	successor := r.turnOrder[(idx+1)%len(r.turnOrder)]

	r.turnOrder = slices.Delete(r.turnOrder, idx, idx+1)
	r.seats = slices.DeleteFunc(r.seats, func(id string) bool { return id == p.ID })
	delete(r.players, p.ID)
	detach(p, r.ID)

	r.log.WithField("player", p.Name).Info("🚪 玩家退出比赛")
	r.broadcastLog(fmt.Sprintf("🚪 %s 退出了比赛", p.Name))
	r.after(func() { r.hooks.RoomChanged(r) })

	if r.connectedHumans() == 0 {
		r.finish(nil)
		return
	}

	if wasCurrent {
		r.cancelTimer()
		r.beginTurn(r.orderIndex(successor))
		return
	}
	r.current = r.orderIndex(cur.ID)
	r.broadcastState()
}

// finish 进入结束状态，winner 为 nil 表示无人完赛
func (r *Room) finish(winner *player.Player) {
	r.cancelTimer()
	r.state = RoomStateFinished
	r.winner = winner

	if winner != nil {
		r.log.WithFields(logrus.Fields{
			"winner":   winner.Name,
			"distance": winner.Position,
		}).Info("🏆 比赛结束")
		r.broadcastLog(fmt.Sprintf("🏆 %s 冲过终点，赢得比赛！", winner.Name))
	} else {
		r.log.Info("🏁 比赛结束，无人完赛")
	}

	r.broadcastState()
	r.after(func() { r.hooks.RoomFinished(r) })
}

// Close 关闭房间：停止计时器，通知仍在线的玩家并解除绑定。由注册表在移除房间时调用
func (r *Room) Close(reason string) {
	r.mu.Lock()
	defer r.unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.cancelTimer()

	msg := codec.MustNewMessage(protocol.MsgRoomClosed, protocol.RoomClosedPayload{
		RoomID: r.ID,
		Reason: reason,
	})
	for _, p := range r.players {
		if p.Client == nil {
			continue
		}
		p.Send(msg)
		detach(p, r.ID)
	}
	r.log.WithField("reason", reason).Info("🏠 房间已关闭")
}
