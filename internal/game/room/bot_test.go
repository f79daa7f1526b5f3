package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/game/player"
)

// botRoom starts a race with a single human so that one bot is added.
func botRoom(t *testing.T) (tr *testRoom, human, bot *player.Player) {
	t.Helper()

	tr = newTestRoom(t, 0)
	c := tr.join(t, "Alice")
	require.NoError(t, tr.Start(c.ID))

	for _, p := range tr.players {
		if p.IsBot {
			bot = p
		} else {
			human = p
		}
	}
	require.NotNil(t, bot)
	return tr, human, bot
}

func (tr *testRoom) runBot(bot *player.Player) {
	tr.withLock(func() {
		tr.current = tr.orderIndex(bot.ID)
		tr.playBot(bot)
	})
}

func TestBot_PlaysSafetyFirst(t *testing.T) {
	t.Parallel()

	tr, _, bot := botRoom(t)
	bot.Hazards[card.Accident] = true
	bot.Hand = []card.Card{movement(25), remedy(card.Repairs), safety(card.DrivingAce)}

	tr.runBot(bot)
	assert.True(t, bot.Safeties[card.DrivingAce])
	assert.Empty(t, bot.Hazards)
	assert.Equal(t, bot.ID, tr.CurrentPlayerID(), "safety grants another turn")
	assert.Len(t, bot.Hand, 2)
}

func TestBot_RemedyBeforeHazard(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	bot.Hazards[card.FlatTire] = true
	bot.Hand = []card.Card{hazard(card.Stop), remedy(card.SpareTire)}

	tr.runBot(bot)
	assert.Empty(t, bot.Hazards)
	assert.False(t, human.MustPlayGo)
	assert.Equal(t, []card.Card{hazard(card.Stop)}, bot.Hand)
	assert.Equal(t, human.ID, tr.CurrentPlayerID())
}

func TestBot_AttacksHuman(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	bot.Hand = []card.Card{movement(50), hazard(card.Stop)}

	tr.runBot(bot)
	assert.True(t, human.MustPlayGo)
	assert.Equal(t, 0, bot.Position)
}

func TestBot_SkipsImmuneTarget(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	human.Safeties[card.RightOfWay] = true
	bot.Hand = []card.Card{hazard(card.Stop), movement(50)}

	tr.runBot(bot)
	assert.False(t, human.MustPlayGo)
	assert.Equal(t, 50, bot.Position)
}

func TestBot_SkipsAfflictedTarget(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	human.Hazards[card.OutOfGas] = true
	bot.Hand = []card.Card{hazard(card.OutOfGas), movement(25)}

	tr.runBot(bot)
	assert.Equal(t, 25, bot.Position)
}

func TestBot_HighestLegalMovement(t *testing.T) {
	t.Parallel()

	tr, _, bot := botRoom(t)
	bot.Position = 550
	bot.Hand = []card.Card{movement(25), movement(100), movement(200)}

	tr.runBot(bot)
	assert.Equal(t, 650, bot.Position)
	assert.Equal(t, []card.Card{movement(25), movement(200)}, bot.Hand)
}

func TestBot_DiscardsWhenStuck(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	bot.MustPlayGo = true
	bot.Hand = []card.Card{movement(25), movement(200)}

	tr.runBot(bot)
	assert.Equal(t, []card.Card{movement(200)}, bot.Hand)
	assert.Equal(t, human.ID, tr.CurrentPlayerID())
}

func TestBot_HardDiscardsLeastUseful(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	human.Position = 400
	bot.MustPlayGo = true
	bot.Safeties[card.ExtraTank] = true
	bot.Hand = []card.Card{movement(25), remedy(card.Gas)}

	tr.runBot(bot)
	assert.Equal(t, []card.Card{movement(25)}, bot.Hand)
}

func TestBot_EmptyHandPasses(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	bot.Hand = nil

	tr.runBot(bot)
	assert.Equal(t, human.ID, tr.CurrentPlayerID())
}

func TestBot_ActsOnTimer(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	tr.withLock(func() {
		tr.cancelTimer()
		tr.beginTurn(tr.orderIndex(bot.ID))
	})
	d, ok := tr.sched.Delay("turn:" + testRoomID)
	require.True(t, ok)
	assert.Equal(t, tr.rules.BotThink, d)

	bot.Hand = []card.Card{movement(75)}
	require.True(t, tr.sched.Fire("turn:"+testRoomID))
	assert.Equal(t, 75, bot.Position)
	assert.Equal(t, human.ID, tr.CurrentPlayerID())
}

func TestBot_TargetTiers(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*testRoom, *player.Player, *player.Player, *player.Player) {
		tr := newTestRoom(t, 0)
		alice := tr.join(t, "Alice")
		tr.join(t, "Bob")
		bot := player.NewBot("KITT")
		tr.players[bot.ID] = bot
		tr.seats = append(tr.seats, bot.ID)
		require.NoError(t, tr.Start(alice.ID))

		weak := tr.PlayerByConn("conn-1")
		strong := tr.PlayerByConn("conn-2")
		weak.Position = 100
		strong.Position = 300
		return tr, weak, strong, bot
	}

	t.Run("hard targets the leader", func(t *testing.T) {
		t.Parallel()

		tr, weak, strong, bot := setup(t)
		assert.Equal(t, DifficultyHard, tr.difficultyFor(bot))
		bot.Hand = []card.Card{hazard(card.Accident)}

		tr.runBot(bot)
		assert.True(t, strong.Hazards[card.Accident])
		assert.False(t, weak.Hazards[card.Accident])
	})

	t.Run("easy targets the weakest", func(t *testing.T) {
		t.Parallel()

		tr, weak, strong, bot := setup(t)
		bot.Position = 600
		assert.Equal(t, DifficultyEasy, tr.difficultyFor(bot))
		bot.Hand = []card.Card{hazard(card.Accident)}

		tr.runBot(bot)
		assert.True(t, weak.Hazards[card.Accident])
		assert.False(t, strong.Hazards[card.Accident])
	})

	t.Run("normal within band", func(t *testing.T) {
		t.Parallel()

		tr, _, _, bot := setup(t)
		bot.Position = 250
		assert.Equal(t, DifficultyNormal, tr.difficultyFor(bot))
	})
}

func TestDifficulty_IgnoresDisconnectedHumans(t *testing.T) {
	t.Parallel()

	tr, human, bot := botRoom(t)
	human.Position = 500
	assert.Equal(t, DifficultyHard, tr.difficultyFor(bot))

	human.Unbind()
	assert.Equal(t, DifficultyNormal, tr.difficultyFor(bot))
}

func TestUsefulness(t *testing.T) {
	t.Parallel()

	p := player.NewBot("KITT")
	p.Position = 650
	p.Safeties[card.ExtraTank] = true
	p.Hazards[card.FlatTire] = true

	tests := []struct {
		name string
		card card.Card
		want int
	}{
		{"safety", safety(card.DrivingAce), 100},
		{"needed remedy", remedy(card.SpareTire), 90},
		{"immune remedy", remedy(card.Gas), 0},
		{"spare remedy", remedy(card.Repairs), 30},
		{"hazard", hazard(card.Stop), 50},
		{"overshoot", movement(75), 0},
		{"movement", movement(50), 25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usefulness(p, tt.card, 700, 50), tt.name)
	}

	p.Position = 0
	p.SpeedLimited = true
	assert.Equal(t, 20, usefulness(p, movement(100), 700, 50))
	assert.Equal(t, 22, usefulness(p, movement(25), 700, 50))
}
