package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting  RoomState = iota // 等待玩家
	RoomStatePlaying                   // 比赛中
	RoomStateFinished                  // 已结束（终态）
)

var stateNames = map[RoomState]string{
	RoomStateWaiting:  "waiting",
	RoomStatePlaying:  "playing",
	RoomStateFinished: "finished",
}

func (s RoomState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Outcome 一次成功出牌的结果
type Outcome int

const (
	OutcomeNone          Outcome = iota
	OutcomeMoved                 // 前进
	OutcomeHazardApplied         // 路障生效
	OutcomeBlocked               // 路障被安全牌挡下
	OutcomeRemedied              // 解除路障
	OutcomeSafety                // 打出安全牌（额外回合）
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:          "none",
	OutcomeMoved:         "moved",
	OutcomeHazardApplied: "hazard_applied",
	OutcomeBlocked:       "blocked",
	OutcomeRemedied:      "remedied",
	OutcomeSafety:        "safety",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Difficulty 机器人难度
type Difficulty int

const (
	DifficultyNormal Difficulty = iota
	DifficultyEasy              // 机器人领先，放水
	DifficultyHard              // 机器人落后，全力追赶
)
