package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/testutil"
)

func TestNewPlayer(t *testing.T) {
	t.Parallel()

	client := testutil.NewSimpleClient("conn-1", "Ana")
	p := New("Ana", client)

	assert.NotEmpty(t, p.ID)
	assert.NotEqual(t, "conn-1", p.ID)
	assert.Equal(t, "conn-1", p.ConnID)
	assert.True(t, p.IsConnected())
	assert.True(t, p.CanMove())

	bot := NewBot("KITT")
	assert.True(t, bot.IsBot)
	assert.False(t, bot.IsConnected())
	assert.True(t, bot.PublicState().Online)
}

func TestApplyAndClearHazard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hazard  card.HazardKind
		canMove bool
	}{
		{card.OutOfGas, false},
		{card.FlatTire, false},
		{card.Accident, false},
		{card.SpeedLimit, true},
		{card.Stop, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.hazard), func(t *testing.T) {
			t.Parallel()

			p := NewBot("b")
			require.True(t, p.ApplyHazard(tt.hazard))
			assert.True(t, p.IsAfflicted(tt.hazard))
			assert.Equal(t, tt.canMove, p.CanMove())

			p.ClearHazard(tt.hazard)
			assert.False(t, p.IsAfflicted(tt.hazard))
			assert.True(t, p.CanMove())
		})
	}
}

func TestImmunityBlocksEveryHazard(t *testing.T) {
	t.Parallel()

	for _, h := range card.AllHazards {
		problem, _ := card.ProblemOf(h)

		p := NewBot("b")
		p.Safeties[problem.Safety] = true
		before := p.PublicState()

		assert.False(t, p.ApplyHazard(h), "hazard %s", h)
		assert.Equal(t, before, p.PublicState(), "hazard %s", h)
	}
}

func TestGrantSafetyClearsAffliction(t *testing.T) {
	t.Parallel()

	p := NewBot("b")
	p.ApplyHazard(card.FlatTire)
	p.ApplyHazard(card.OutOfGas)

	p.GrantSafety(card.PunctureProof)
	assert.False(t, p.Hazards[card.FlatTire])
	assert.True(t, p.Hazards[card.OutOfGas])
	assert.True(t, p.IsImmune(card.FlatTire))
}

func TestRightOfWayClearsLimitAndStop(t *testing.T) {
	t.Parallel()

	p := NewBot("b")
	p.ApplyHazard(card.SpeedLimit)
	p.ApplyHazard(card.Stop)
	require.False(t, p.CanMove())

	p.GrantSafety(card.RightOfWay)
	assert.False(t, p.SpeedLimited)
	assert.False(t, p.MustPlayGo)
	assert.True(t, p.CanMove())
	assert.True(t, p.IsImmune(card.Stop))
	assert.True(t, p.IsImmune(card.SpeedLimit))
}

func TestTakeCard(t *testing.T) {
	t.Parallel()

	p := NewBot("b")
	p.AddCard(card.Card{ID: 1, Kind: card.Movement, Distance: 25})
	p.AddCard(card.Card{ID: 2, Kind: card.Remedy, Remedy: card.Go})
	p.AddCard(card.Card{ID: 3, Kind: card.Safety, Safety: card.DrivingAce})

	c, ok := p.TakeCard(1)
	require.True(t, ok)
	assert.Equal(t, 2, c.ID)
	assert.Len(t, p.Hand, 2)

	_, ok = p.TakeCard(5)
	assert.False(t, ok)
	_, ok = p.TakeCard(-1)
	assert.False(t, ok)
	assert.Len(t, p.Hand, 2)
}

func TestPublicStateHidesHand(t *testing.T) {
	t.Parallel()

	client := testutil.NewSimpleClient("c", "Ana")
	p := New("Ana", client)
	p.AddCard(card.Card{ID: 9, Kind: card.Movement, Distance: 100})
	p.ApplyHazard(card.Accident)

	pub := p.PublicState()
	assert.Equal(t, 1, pub.HandSize)
	assert.Equal(t, []string{"accident"}, pub.Hazards)
	assert.False(t, pub.CanMove)

	priv := p.PrivateState()
	require.Len(t, priv.Hand, 1)
	assert.Equal(t, 100, priv.Hand[0].Distance)

	p.Unbind()
	assert.False(t, p.PublicState().Online)
	assert.Empty(t, p.ConnID)
}
