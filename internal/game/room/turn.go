package room

import (
	"fmt"
	"math"
	"time"

	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
)

// beginTurn 轮到 turnOrder[idx]：摸一张牌、计算时限、推送快照并启动计时器
func (r *Room) beginTurn(idx int) {
	r.current = idx
	p := r.currentPlayer()

	// 两堆牌都空时不摸牌
	if c, ok := r.deck.Draw(); ok {
		p.AddCard(c)
	}

	r.turnDuration = r.durationFor(p)
	r.turnStart = r.clock()
	r.turnSeq++
	r.broadcastState()
	r.armTimer()
}

// nextTurn 结束当前回合；actor 到达终点时比赛结束
func (r *Room) nextTurn(actor *player.Player) {
	r.cancelTimer()

	if actor != nil && actor.Position >= r.Goal {
		r.finish(actor)
		return
	}
	r.beginTurn((r.current + 1) % len(r.turnOrder))
}

func (r *Room) armTimer() {
	seq := r.turnSeq
	r.sched.Schedule(r.timerKey(), r.turnDuration, func() {
		r.onTurnTimer(seq)
	})
}

// cancelTimer 取消计时器并使已触发但未执行的回调失效
func (r *Room) cancelTimer() {
	r.turnSeq++
	r.sched.Cancel(r.timerKey())
}

func (r *Room) durationFor(p *player.Player) time.Duration {
	if !p.IsConnected() {
		return r.rules.BotThink
	}
	return turnDuration(p.Position, r.Goal, r.rules)
}

// turnDuration 越接近终点时间越短：max(min, max - (max-min)*progress^k)
func turnDuration(position, goal int, rules Rules) time.Duration {
	progress := 0.0
	if goal > 0 {
		progress = math.Min(1, math.Max(0, float64(position)/float64(goal)))
	}
	span := float64(rules.TurnMax - rules.TurnMin)
	d := rules.TurnMax - time.Duration(span*math.Pow(progress, rules.TurnCurve))
	return max(rules.TurnMin, d)
}

func (r *Room) onTurnTimer(seq uint64) {
	r.mu.Lock()
	defer r.unlock()

	if r.closed || r.state != RoomStatePlaying || seq != r.turnSeq {
		return
	}
	p := r.currentPlayer()
	if p == nil {
		return
	}
	if p.IsBot {
		r.playBot(p)
		return
	}
	r.idleTimeout(p)
}

// idleTimeout 真人超时（或离线）时自动弃一张牌并结束回合
func (r *Room) idleTimeout(p *player.Player) {
	if idx := idleDiscardIndex(p, r.Goal); idx >= 0 {
		c, _ := p.TakeCard(idx)
		r.deck.Discard(c)
	}

	r.log.WithField("player", p.Name).Debug("⏰ 回合超时")
	r.broadcastLog(fmt.Sprintf("⏰ %s 思考太久，自动弃掉一张牌", p.Name))
	r.nextTurn(p)
}

// idleDiscardIndex 优先弃会冲过终点的距离牌，其次任意距离牌，最后第一张；空手返回 -1
func idleDiscardIndex(p *player.Player, goal int) int {
	if len(p.Hand) == 0 {
		return -1
	}
	movement := -1
	for i, c := range p.Hand {
		if c.Kind != card.Movement {
			continue
		}
		if p.Position+c.Distance > goal {
			return i
		}
		if movement < 0 {
			movement = i
		}
	}
	if movement >= 0 {
		return movement
	}
	return 0
}
