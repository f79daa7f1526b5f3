package room

import (
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
)

// playBot 机器人回合：安全牌 > 修复牌 > 路障牌 > 最大可行距离牌 > 弃牌
func (r *Room) playBot(bot *player.Player) {
	if len(bot.Hand) == 0 {
		r.nextTurn(bot)
		return
	}

	d := r.difficultyFor(bot)
	if idx, target := r.chooseBotPlay(bot, d); idx >= 0 {
		_, err := r.play(bot, idx, target)
		if err == nil {
			return
		}
		r.log.WithError(err).WithField("bot", bot.Name).Warn("🤖 机器人出牌失败，改为弃牌")
		_ = r.discard(bot, 0)
		return
	}
	_ = r.discard(bot, r.botDiscardIndex(bot, d))
}

// difficultyFor 根据机器人与领先真人的距离差决定难度
func (r *Room) difficultyFor(bot *player.Player) Difficulty {
	lead := -1
	for _, p := range r.orderedPlayers() {
		if p.IsConnected() && p.Position > lead {
			lead = p.Position
		}
	}
	if lead < 0 {
		return DifficultyNormal
	}

	switch diff := bot.Position - lead; {
	case diff > r.rules.DifficultyBand:
		return DifficultyEasy
	case diff < -r.rules.DifficultyBand:
		return DifficultyHard
	}
	return DifficultyNormal
}

// chooseBotPlay 返回要打出的手牌索引与目标，没有可出的牌时索引为 -1
func (r *Room) chooseBotPlay(bot *player.Player, d Difficulty) (int, string) {
	hand := bot.Hand

	skipSafety := d == DifficultyEasy && r.rng.IntN(100) < r.rules.EasySafetySkip
	if !skipSafety {
		for i, c := range hand {
			if c.Kind == card.Safety {
				return i, ""
			}
		}
	}

	for i, c := range hand {
		if c.Kind != card.Remedy {
			continue
		}
		if h, ok := card.HazardFor(c.Remedy); ok && bot.IsAfflicted(h) {
			return i, ""
		}
	}

	for i, c := range hand {
		if c.Kind != card.Hazard {
			continue
		}
		if target := r.pickTarget(bot, c.Hazard, d); target != nil {
			return i, target.ID
		}
	}

	best := -1
	for i, c := range hand {
		if c.Kind != card.Movement || r.checkMove(bot, c.Distance) != nil {
			continue
		}
		if best < 0 || c.Distance > hand[best].Distance {
			best = i
		}
	}
	return best, ""
}

// pickTarget 只攻击真人：未免疫且尚未受该路障影响的玩家
func (r *Room) pickTarget(bot *player.Player, h card.HazardKind, d Difficulty) *player.Player {
	var candidates []*player.Player
	for _, p := range r.orderedPlayers() {
		if p == bot || p.IsBot || p.IsImmune(h) || p.IsAfflicted(h) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil
	}

	switch d {
	case DifficultyEasy:
		weakest := candidates[0]
		for _, p := range candidates[1:] {
			if p.Position < weakest.Position {
				weakest = p
			}
		}
		return weakest
	case DifficultyHard:
		strongest := candidates[0]
		for _, p := range candidates[1:] {
			if p.Position > strongest.Position {
				strongest = p
			}
		}
		return strongest
	default:
		return candidates[r.rng.IntN(len(candidates))]
	}
}

func (r *Room) botDiscardIndex(bot *player.Player, d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return r.rng.IntN(len(bot.Hand))
	case DifficultyHard:
		worst, score := 0, usefulness(bot, bot.Hand[0], r.Goal, r.rules.SpeedLimitCap)
		for i, c := range bot.Hand[1:] {
			if s := usefulness(bot, c, r.Goal, r.rules.SpeedLimitCap); s < score {
				worst, score = i+1, s
			}
		}
		return worst
	default:
		return idleDiscardIndex(bot, r.Goal)
	}
}

// usefulness 手牌价值评分，越低越先弃
func usefulness(p *player.Player, c card.Card, goal, speedCap int) int {
	switch c.Kind {
	case card.Safety:
		return 100
	case card.Remedy:
		h, _ := card.HazardFor(c.Remedy)
		switch {
		case p.IsAfflicted(h):
			return 90
		case p.IsImmune(h):
			return 0
		}
		return 30
	case card.Hazard:
		return 50
	case card.Movement:
		if p.Position+c.Distance > goal {
			return 0
		}
		if p.SpeedLimited && c.Distance > speedCap {
			return 10 + c.Distance/10
		}
		return 20 + c.Distance/10
	}
	return 0
}
