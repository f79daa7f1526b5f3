package convert

import (
	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	info := protocol.CardInfo{ID: c.ID, Kind: c.Kind.String()}
	if c.Kind == card.Movement {
		info.Distance = c.Distance
	} else {
		info.Name = c.Value()
	}
	return info
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// HazardNames 按固定顺序输出路障名称
func HazardNames(active map[card.HazardKind]bool) []string {
	names := make([]string, 0, len(active))
	for _, h := range card.AllHazards {
		if active[h] {
			names = append(names, string(h))
		}
	}
	return names
}

// SafetyNames 按固定顺序输出安全牌名称
func SafetyNames(held map[card.SafetyKind]bool) []string {
	names := make([]string, 0, len(held))
	for _, s := range card.AllSafeties {
		if held[s] {
			names = append(names, string(s))
		}
	}
	return names
}
