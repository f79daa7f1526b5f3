package card

import "math/rand/v2"

// DefaultGoal 标准比赛距离，也是牌堆按距离扩容的步长
const DefaultGoal = 700

type bundle struct {
	distance map[int]int
	hazard   map[HazardKind]int
	remedy   map[RemedyKind]int
	safety   map[SafetyKind]int
}

// baseCatalog 两名玩家时的基础牌组
var baseCatalog = bundle{
	distance: map[int]int{25: 8, 50: 8, 75: 8, 100: 10, 200: 3},
	hazard:   map[HazardKind]int{OutOfGas: 3, FlatTire: 3, Accident: 3, SpeedLimit: 4, Stop: 4},
	remedy:   map[RemedyKind]int{Gas: 5, SpareTire: 5, Repairs: 5, EndOfLimit: 5, Go: 12},
	safety:   map[SafetyKind]int{ExtraTank: 1, PunctureProof: 1, DrivingAce: 1, RightOfWay: 1},
}

// playerBonus 超过两名玩家后每多一人追加
var playerBonus = bundle{
	distance: map[int]int{100: 1},
	hazard:   map[HazardKind]int{SpeedLimit: 1},
	remedy:   map[RemedyKind]int{Go: 2, EndOfLimit: 1},
}

// goalBonus 目标距离每超出一个 DefaultGoal 追加
var goalBonus = bundle{
	distance: map[int]int{25: 2, 50: 2, 75: 2, 100: 3, 200: 1},
}

// 固定遍历顺序，保证相同种子下牌堆可复现
var distances = []int{25, 50, 75, 100, 200}

var remedies = []RemedyKind{Gas, SpareTire, Repairs, EndOfLimit, Go}

// Deck 一个房间的摸牌堆与弃牌堆
type Deck struct {
	draw    []Card
	discard []Card
	total   int
	rng     *rand.Rand
}

// BundleCount 返回给定人数与距离需要叠加的扩容包数量
func BundleCount(playerCount, goal int) (players, goals int) {
	players = max(0, playerCount-2)
	if goal > DefaultGoal {
		goals = (goal - 1) / DefaultGoal
	}
	return players, goals
}

// NewDeck 按人数与目标距离构建并洗好一副牌
func NewDeck(playerCount, goal int, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.add(baseCatalog, 1)
	players, goals := BundleCount(playerCount, goal)
	d.add(playerBonus, players)
	d.add(goalBonus, goals)
	d.total = len(d.draw)
	d.Shuffle()
	return d
}

func (d *Deck) add(b bundle, times int) {
	for range times {
		for _, v := range distances {
			for range b.distance[v] {
				d.push(Card{Kind: Movement, Distance: v})
			}
		}
		for _, h := range AllHazards {
			for range b.hazard[h] {
				d.push(Card{Kind: Hazard, Hazard: h})
			}
		}
		for _, r := range remedies {
			for range b.remedy[r] {
				d.push(Card{Kind: Remedy, Remedy: r})
			}
		}
		for _, s := range AllSafeties {
			for range b.safety[s] {
				d.push(Card{Kind: Safety, Safety: s})
			}
		}
	}
}

func (d *Deck) push(c Card) {
	c.ID = len(d.draw) + 1
	d.draw = append(d.draw, c)
}

// Shuffle Fisher–Yates 洗摸牌堆
func (d *Deck) Shuffle() {
	for i := len(d.draw) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

// Draw 摸一张牌，摸牌堆空时把弃牌堆洗回；两堆皆空返回 false
func (d *Deck) Draw() (Card, bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, false
		}
		d.draw, d.discard = d.discard, nil
		d.Shuffle()
	}
	last := len(d.draw) - 1
	c := d.draw[last]
	d.draw = d.draw[:last]
	return c, true
}

// Discard 弃牌
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// DrawCount 摸牌堆剩余
func (d *Deck) DrawCount() int {
	return len(d.draw)
}

// DiscardCount 弃牌堆数量
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}

// Total 建牌时的总张数
func (d *Deck) Total() int {
	return d.total
}
