package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/protocol"
)

func TestCardToInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		card card.Card
		want protocol.CardInfo
	}{
		{"movement", card.Card{ID: 1, Kind: card.Movement, Distance: 200}, protocol.CardInfo{ID: 1, Kind: "movement", Distance: 200}},
		{"hazard", card.Card{ID: 2, Kind: card.Hazard, Hazard: card.Stop}, protocol.CardInfo{ID: 2, Kind: "hazard", Name: "stop"}},
		{"remedy", card.Card{ID: 3, Kind: card.Remedy, Remedy: card.Gas}, protocol.CardInfo{ID: 3, Kind: "remedy", Name: "gas"}},
		{"safety", card.Card{ID: 4, Kind: card.Safety, Safety: card.RightOfWay}, protocol.CardInfo{ID: 4, Kind: "safety", Name: "right_of_way"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CardToInfo(tt.card))
		})
	}
}

func TestEmptyCards(t *testing.T) {
	t.Parallel()

	infos := CardsToInfos([]card.Card{})
	assert.Empty(t, infos)
	assert.NotNil(t, infos)
}

func TestNamesAreOrdered(t *testing.T) {
	t.Parallel()

	hazards := map[card.HazardKind]bool{card.Accident: true, card.OutOfGas: true}
	assert.Equal(t, []string{"out_of_gas", "accident"}, HazardNames(hazards))

	safeties := map[card.SafetyKind]bool{card.RightOfWay: true, card.ExtraTank: true}
	assert.Equal(t, []string{"extra_tank", "right_of_way"}, SafetyNames(safeties))
}
