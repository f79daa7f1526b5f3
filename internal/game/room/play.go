package room

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
)

// PlayCard 当前玩家打出手牌，路障牌需要指定目标
func (r *Room) PlayCard(connID string, handIndex int, targetID string) (Outcome, error) {
	r.mu.Lock()
	defer r.unlock()

	p, err := r.actor(connID)
	if err != nil {
		return OutcomeNone, err
	}
	return r.play(p, handIndex, targetID)
}

// Discard 当前玩家弃一张牌并结束回合
func (r *Room) Discard(connID string, handIndex int) error {
	r.mu.Lock()
	defer r.unlock()

	p, err := r.actor(connID)
	if err != nil {
		return err
	}
	return r.discard(p, handIndex)
}

// actor 校验连接对应的玩家正持有回合
func (r *Room) actor(connID string) (*player.Player, error) {
	// 房间已拆除，迟到的命令
	if r.closed {
		return nil, apperrors.ErrStale
	}
	switch r.state {
	case RoomStateWaiting:
		return nil, apperrors.ErrGameNotStart
	case RoomStateFinished:
		return nil, apperrors.ErrRoomFinished
	}

	p := r.playerByConn(connID)
	if p == nil {
		// 被顶替的旧连接
		return nil, apperrors.ErrStale
	}
	if r.currentPlayer() != p {
		return nil, apperrors.ErrNotYourTurn
	}
	return p, nil
}

// checkMove 距离牌的校验顺序：红灯、路障、限速、超出终点
func (r *Room) checkMove(p *player.Player, distance int) error {
	switch {
	case p.MustPlayGo:
		return apperrors.ErrMustPlayGo
	case len(p.Hazards) > 0:
		return apperrors.ErrHazardActive
	case p.SpeedLimited && distance > r.rules.SpeedLimitCap:
		return apperrors.ErrSpeedLimit
	case p.Position+distance > r.Goal:
		return apperrors.ErrOvershoot
	}
	return nil
}

func (r *Room) play(p *player.Player, idx int, targetID string) (Outcome, error) {
	if idx < 0 || idx >= len(p.Hand) {
		return OutcomeNone, apperrors.ErrCardNotFound
	}
	c := p.Hand[idx]

	switch c.Kind {
	case card.Movement:
		if err := r.checkMove(p, c.Distance); err != nil {
			return OutcomeNone, err
		}
		r.take(p, idx)
		p.Position += c.Distance
		r.broadcastLog(fmt.Sprintf("%s %s 前进 %d 公里 (%d/%d)", p.Marker, p.Name, c.Distance, p.Position, r.Goal))
		r.nextTurn(p)
		return OutcomeMoved, nil

	case card.Hazard:
		if targetID == "" {
			return OutcomeNone, apperrors.ErrTargetRequired
		}
		target, ok := r.players[targetID]
		if !ok || target == p || r.orderIndex(targetID) < 0 {
			return OutcomeNone, apperrors.ErrInvalidTarget
		}
		r.take(p, idx)
		if !target.ApplyHazard(c.Hazard) {
			r.broadcastLog(fmt.Sprintf("🛡️ %s 对 %s 使用了 %s，但被安全牌挡下", p.Name, target.Name, c.Hazard))
			r.nextTurn(p)
			return OutcomeBlocked, nil
		}
		r.announceHazard(p, target, c.Hazard)
		r.nextTurn(p)
		return OutcomeHazardApplied, nil

	case card.Remedy:
		h, _ := card.HazardFor(c.Remedy)
		if !p.IsAfflicted(h) {
			return OutcomeNone, apperrors.ErrRemedyNotNeed
		}
		r.take(p, idx)
		p.ClearHazard(h)
		r.broadcastLog(fmt.Sprintf("🔧 %s 使用 %s 解除了 %s", p.Name, c.Remedy, h))
		r.nextTurn(p)
		return OutcomeRemedied, nil

	case card.Safety:
		r.take(p, idx)
		p.GrantSafety(c.Safety)
		r.announceSafety(p, c.Safety)

		// 额外回合：同一玩家、同样的时限、重新计时
		r.cancelTimer()
		r.turnStart = r.clock()
		r.broadcastState()
		r.armTimer()
		return OutcomeSafety, nil
	}
	return OutcomeNone, apperrors.ErrCardNotFound
}

func (r *Room) discard(p *player.Player, idx int) error {
	c, ok := p.TakeCard(idx)
	if !ok {
		return apperrors.ErrCardNotFound
	}
	r.deck.Discard(c)
	r.log.WithFields(logrus.Fields{"player": p.Name, "card": c.String()}).Debug("🗑️ 弃牌")
	r.broadcastLog(fmt.Sprintf("🗑️ %s 弃了一张牌", p.Name))
	r.nextTurn(p)
	return nil
}

// take 从手牌取出并放入弃牌堆
func (r *Room) take(p *player.Player, idx int) card.Card {
	c, _ := p.TakeCard(idx)
	r.deck.Discard(c)
	return c
}

func (r *Room) announceHazard(attacker, target *player.Player, h card.HazardKind) {
	problem, _ := card.ProblemOf(h)
	r.broadcast(codec.MustNewMessage(protocol.MsgHazardApplied, protocol.HazardAppliedPayload{
		AttackerID:     attacker.ID,
		AttackerName:   attacker.Name,
		AttackerMarker: attacker.Marker,
		TargetID:       target.ID,
		Hazard:         string(h),
		Remedy:         string(problem.Remedy),
	}))
	r.broadcastLog(fmt.Sprintf("💥 %s 对 %s 使用了 %s", attacker.Name, target.Name, h))
}

func (r *Room) announceSafety(p *player.Player, s card.SafetyKind) {
	r.broadcast(codec.MustNewMessage(protocol.MsgSafetyPlayed, protocol.SafetyPlayedPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Marker:     p.Marker,
		Safety:     string(s),
	}))
	r.broadcastLog(fmt.Sprintf("⭐ %s 打出安全牌 %s，获得额外回合", p.Name, s))
}
