package room

import (
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
)

// broadcast 发送给所有在线玩家
func (r *Room) broadcast(msg *protocol.Message) {
	for _, p := range r.players {
		p.Send(msg)
	}
}

func (r *Room) broadcastLog(text string) {
	r.broadcast(codec.MustNewMessage(protocol.MsgLog, protocol.LogPayload{Message: text}))
}

func (r *Room) broadcastPlayerList() {
	players := r.orderedPlayers()
	list := make([]protocol.PlayerPublic, 0, len(players))
	for _, p := range players {
		list = append(list, p.PublicState())
	}
	r.broadcast(codec.MustNewMessage(protocol.MsgPlayerList, protocol.PlayerListPayload{
		RoomID:  r.ID,
		Players: list,
	}))
}

// broadcastState 每个玩家收到自己视角的快照
func (r *Room) broadcastState() {
	for _, p := range r.players {
		if p.Client == nil {
			continue
		}
		p.Send(codec.MustNewMessage(protocol.MsgGameState, r.snapshotFor(p.ID)))
	}
}

// snapshotFor 指定玩家视角的状态快照，playerID 为空时只包含公开信息
func (r *Room) snapshotFor(playerID string) protocol.GameStatePayload {
	s := protocol.GameStatePayload{
		RoomID:       r.ID,
		State:        r.state.String(),
		Opponents:    []protocol.PlayerPublic{},
		GoalDistance: r.Goal,
	}

	for _, p := range r.orderedPlayers() {
		if p.ID == playerID {
			s.Me = p.PrivateState()
			continue
		}
		s.Opponents = append(s.Opponents, p.PublicState())
	}

	if r.state == RoomStatePlaying {
		if cur := r.currentPlayer(); cur != nil {
			s.CurrentPlayerID = cur.ID
		}
		s.TurnStart = r.turnStart.UnixMilli()
		s.TurnDuration = r.turnDuration.Milliseconds()
	}
	if r.winner != nil {
		s.WinnerID = r.winner.ID
		s.WinnerName = r.winner.Name
	}
	if r.deck != nil {
		s.DrawPile = r.deck.DrawCount()
	}
	return s
}
