//go:build !production

package room

import (
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/protocol"
)

// 以下方法仅用于测试，用来构造确定的牌局

// ForceTurnFor 把回合交给连接对应的玩家，返回是否成功
func (r *Room) ForceTurnFor(connID string) bool {
	r.mu.Lock()
	defer r.unlock()

	p := r.playerByConn(connID)
	if p == nil || r.state != RoomStatePlaying {
		return false
	}
	r.cancelTimer()
	r.current = r.orderIndex(p.ID)
	r.turnDuration = r.durationFor(p)
	r.turnStart = r.clock()
	r.armTimer()
	return true
}

// SetHandFor 替换玩家手牌：旧手牌进入弃牌堆，新牌按种类和牌面从牌堆中取出，
// 保证总张数不变。牌堆里找不到某张牌时返回 false，已取出的牌留在手中
func (r *Room) SetHandFor(connID string, cards ...card.Card) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConn(connID)
	if p == nil || r.deck == nil {
		return false
	}
	r.deck.Discard(p.Hand...)
	p.Hand = nil
	for _, want := range cards {
		c, ok := r.pullFromDeck(want)
		if !ok {
			return false
		}
		p.Hand = append(p.Hand, c)
	}
	return true
}

// pullFromDeck 逐张摸牌直到摸到同种同面值的牌，其余的进弃牌堆
func (r *Room) pullFromDeck(want card.Card) (card.Card, bool) {
	for range 2 * r.deck.Total() {
		c, ok := r.deck.Draw()
		if !ok {
			return card.Card{}, false
		}
		if c.Kind == want.Kind && c.Value() == want.Value() {
			return c, true
		}
		r.deck.Discard(c)
	}
	return card.Card{}, false
}

// SnapshotFor 指定玩家视角的状态快照
func (r *Room) SnapshotFor(playerID string) protocol.GameStatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotFor(playerID)
}

// CurrentPlayerID 当前回合玩家的 ID
func (r *Room) CurrentPlayerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.currentPlayer(); p != nil {
		return p.ID
	}
	return ""
}

// PlayerByConn 按连接查找玩家
func (r *Room) PlayerByConn(connID string) *player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerByConn(connID)
}
