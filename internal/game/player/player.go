package player

import (
	"github.com/google/uuid"

	"github.com/palemoky/road-race/internal/game/card"
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/convert"
	"github.com/palemoky/road-race/internal/types"
)

// Player 比赛中的一名参与者
//
// ID 在整个房间生命周期内不变；ConnID 与 Client 是传输层身份，断线重连时重新绑定。
type Player struct {
	ID     string
	ConnID string
	Name   string
	IsBot  bool
	Client types.ClientInterface // nil 表示离线（机器人恒为 nil）

	Position     int
	Hand         []card.Card
	Hazards      map[card.HazardKind]bool
	Safeties     map[card.SafetyKind]bool
	SpeedLimited bool
	MustPlayGo   bool
	Marker       string
}

// New 创建真人玩家
func New(name string, client types.ClientInterface) *Player {
	p := newPlayer(name)
	p.Bind(client)
	return p
}

// NewBot 创建机器人
func NewBot(name string) *Player {
	p := newPlayer(name)
	p.IsBot = true
	return p
}

func newPlayer(name string) *Player {
	return &Player{
		ID:       uuid.NewString(),
		Name:     name,
		Hazards:  make(map[card.HazardKind]bool),
		Safeties: make(map[card.SafetyKind]bool),
	}
}

// Bind 绑定传输连接
func (p *Player) Bind(client types.ClientInterface) {
	p.Client = client
	p.ConnID = ""
	if client != nil {
		p.ConnID = client.GetID()
	}
}

// Unbind 解除连接，保留全部比赛状态
func (p *Player) Unbind() {
	p.Client = nil
	p.ConnID = ""
}

// IsConnected 真人且在线
func (p *Player) IsConnected() bool {
	return !p.IsBot && p.Client != nil
}

// Send 向在线玩家发送消息，离线时忽略
func (p *Player) Send(msg *protocol.Message) {
	if p.Client != nil {
		p.Client.SendMessage(msg)
	}
}

// CanMove 没有路障且不需要绿灯
func (p *Player) CanMove() bool {
	return len(p.Hazards) == 0 && !p.MustPlayGo
}

// IsImmune 是否持有免疫该路障的安全牌
func (p *Player) IsImmune(h card.HazardKind) bool {
	problem, ok := card.ProblemOf(h)
	return ok && p.Safeties[problem.Safety]
}

// IsAfflicted 是否正受该路障影响
func (p *Player) IsAfflicted(h card.HazardKind) bool {
	switch h {
	case card.SpeedLimit:
		return p.SpeedLimited
	case card.Stop:
		return p.MustPlayGo
	default:
		return p.Hazards[h]
	}
}

// ApplyHazard 施加路障，持有对应安全牌时不生效并返回 false
func (p *Player) ApplyHazard(h card.HazardKind) bool {
	if p.IsImmune(h) {
		return false
	}
	switch h {
	case card.SpeedLimit:
		p.SpeedLimited = true
	case card.Stop:
		p.MustPlayGo = true
	default:
		p.Hazards[h] = true
	}
	return true
}

// ClearHazard 解除路障
func (p *Player) ClearHazard(h card.HazardKind) {
	switch h {
	case card.SpeedLimit:
		p.SpeedLimited = false
	case card.Stop:
		p.MustPlayGo = false
	default:
		delete(p.Hazards, h)
	}
}

// GrantSafety 获得安全牌并清除其免疫的全部状态
func (p *Player) GrantSafety(s card.SafetyKind) {
	p.Safeties[s] = true
	for _, h := range card.Immunizes(s) {
		p.ClearHazard(h)
	}
	if s == card.RightOfWay {
		p.SpeedLimited = false
		p.MustPlayGo = false
	}
}

// AddCard 加入手牌
func (p *Player) AddCard(c card.Card) {
	p.Hand = append(p.Hand, c)
}

// TakeCard 按索引取出手牌
func (p *Player) TakeCard(index int) (card.Card, bool) {
	if index < 0 || index >= len(p.Hand) {
		return card.Card{}, false
	}
	c := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return c, true
}

// PublicState 对手可见的信息（只有手牌数量）
func (p *Player) PublicState() protocol.PlayerPublic {
	return protocol.PlayerPublic{
		ID:           p.ID,
		Name:         p.Name,
		IsBot:        p.IsBot,
		Online:       p.IsBot || p.Client != nil,
		Marker:       p.Marker,
		Position:     p.Position,
		HandSize:     len(p.Hand),
		Hazards:      convert.HazardNames(p.Hazards),
		Safeties:     convert.SafetyNames(p.Safeties),
		SpeedLimited: p.SpeedLimited,
		MustPlayGo:   p.MustPlayGo,
		CanMove:      p.CanMove(),
	}
}

// PrivateState 本人可见的信息（含完整手牌）
func (p *Player) PrivateState() *protocol.PlayerPrivate {
	return &protocol.PlayerPrivate{
		PlayerPublic: p.PublicState(),
		Hand:         convert.CardsToInfos(p.Hand),
	}
}
