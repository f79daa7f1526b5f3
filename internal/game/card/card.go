package card

import (
	"fmt"
	"strconv"
)

// Kind 定义卡牌种类
type Kind int

const (
	Movement Kind = iota // 距离牌
	Hazard               // 路障牌
	Remedy               // 修复牌
	Safety               // 安全牌
)

// kindNames 种类名称映射表（同时用作协议字段值）
var kindNames = map[Kind]string{
	Movement: "movement",
	Hazard:   "hazard",
	Remedy:   "remedy",
	Safety:   "safety",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return strconv.Itoa(int(k))
}

// HazardKind 路障类型
type HazardKind string

// RemedyKind 修复类型
type RemedyKind string

// SafetyKind 安全类型
type SafetyKind string

const (
	OutOfGas   HazardKind = "out_of_gas"  // 没油
	FlatTire   HazardKind = "flat_tire"   // 爆胎
	Accident   HazardKind = "accident"    // 事故
	SpeedLimit HazardKind = "speed_limit" // 限速
	Stop       HazardKind = "stop"        // 红灯
)

const (
	Gas        RemedyKind = "gas"
	SpareTire  RemedyKind = "spare_tire"
	Repairs    RemedyKind = "repairs"
	EndOfLimit RemedyKind = "end_of_limit"
	Go         RemedyKind = "go" // 绿灯
)

const (
	ExtraTank     SafetyKind = "extra_tank"
	PunctureProof SafetyKind = "puncture_proof"
	DrivingAce    SafetyKind = "driving_ace"
	RightOfWay    SafetyKind = "right_of_way" // 同时免疫限速与红灯
)

// Problem 一种路障对应的修复牌与免疫它的安全牌
type Problem struct {
	Remedy RemedyKind
	Safety SafetyKind
}

// problems 路障 -> 解法
var problems = map[HazardKind]Problem{
	OutOfGas:   {Remedy: Gas, Safety: ExtraTank},
	FlatTire:   {Remedy: SpareTire, Safety: PunctureProof},
	Accident:   {Remedy: Repairs, Safety: DrivingAce},
	SpeedLimit: {Remedy: EndOfLimit, Safety: RightOfWay},
	Stop:       {Remedy: Go, Safety: RightOfWay},
}

// ProblemOf 返回路障对应的解法
func ProblemOf(h HazardKind) (Problem, bool) {
	p, ok := problems[h]
	return p, ok
}

// HazardFor 返回修复牌能解除的路障
func HazardFor(r RemedyKind) (HazardKind, bool) {
	for h, p := range problems {
		if p.Remedy == r {
			return h, true
		}
	}
	return "", false
}

// Immunizes 返回安全牌免疫的全部路障
func Immunizes(s SafetyKind) []HazardKind {
	var out []HazardKind
	for _, h := range AllHazards {
		if problems[h].Safety == s {
			out = append(out, h)
		}
	}
	return out
}

// AllHazards 固定顺序的路障列表
var AllHazards = []HazardKind{OutOfGas, FlatTire, Accident, SpeedLimit, Stop}

// AllSafeties 固定顺序的安全牌列表
var AllSafeties = []SafetyKind{ExtraTank, PunctureProof, DrivingAce, RightOfWay}

// Card 定义一张牌，按种类只有一个取值字段有效
type Card struct {
	ID       int
	Kind     Kind
	Distance int
	Hazard   HazardKind
	Remedy   RemedyKind
	Safety   SafetyKind
}

// Value 返回牌面值的字符串形式
func (c Card) Value() string {
	switch c.Kind {
	case Movement:
		return strconv.Itoa(c.Distance)
	case Hazard:
		return string(c.Hazard)
	case Remedy:
		return string(c.Remedy)
	case Safety:
		return string(c.Safety)
	}
	return ""
}

func (c Card) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Value())
}
