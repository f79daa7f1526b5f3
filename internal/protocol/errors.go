package protocol

// 错误码
const (
	ErrCodeUnknown     = 1000
	ErrCodeInvalidMsg  = 1001
	ErrCodeRateLimit   = 1002 // 速率限制
	ErrCodeInvalidName = 1003 // 昵称不合法

	ErrCodeRoomNotFound  = 2001
	ErrCodeRoomFull      = 2002
	ErrCodeNotInRoom     = 2003
	ErrCodeGameStarted   = 2004 // 比赛已开始
	ErrCodeRoomFinished  = 2005 // 比赛已结束
	ErrCodeNameTaken     = 2006 // 房间内昵称重复
	ErrCodeInvalidGoal   = 2007 // 目标距离不合法
	ErrCodeAlreadyInRoom = 2008
	ErrCodeInvalidRoomID = 2009 // 房间号不合法

	ErrCodeGameNotStart   = 3001
	ErrCodeNotYourTurn    = 3002
	ErrCodeCardNotFound   = 3003 // 手牌索引越界
	ErrCodeMustPlayGo     = 3004 // 需要先出绿灯
	ErrCodeHazardActive   = 3005 // 存在未解除的路障
	ErrCodeSpeedLimit     = 3006 // 限速中
	ErrCodeOvershoot      = 3007 // 超出目标距离
	ErrCodeTargetRequired = 3008
	ErrCodeInvalidTarget  = 3009
	ErrCodeRemedyNotNeed  = 3010 // 无需修复
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "未知错误",
	ErrCodeInvalidMsg:     "无效的消息格式",
	ErrCodeRateLimit:      "请求过于频繁",
	ErrCodeInvalidName:    "昵称不合法",
	ErrCodeRoomNotFound:   "房间不存在",
	ErrCodeRoomFull:       "房间已满",
	ErrCodeNotInRoom:      "您不在房间中",
	ErrCodeGameStarted:    "比赛已开始",
	ErrCodeRoomFinished:   "比赛已结束",
	ErrCodeNameTaken:      "该昵称已在房间中",
	ErrCodeInvalidGoal:    "目标距离不合法",
	ErrCodeAlreadyInRoom:  "您已在房间中",
	ErrCodeInvalidRoomID:  "房间号不合法",
	ErrCodeGameNotStart:   "比赛尚未开始",
	ErrCodeNotYourTurn:    "还没轮到您",
	ErrCodeCardNotFound:   "手牌不存在",
	ErrCodeMustPlayGo:     "您需要先打出绿灯",
	ErrCodeHazardActive:   "您有未解除的路障",
	ErrCodeSpeedLimit:     "限速中，无法打出该距离",
	ErrCodeOvershoot:      "会超出目标距离",
	ErrCodeTargetRequired: "请选择攻击目标",
	ErrCodeInvalidTarget:  "无效的攻击目标",
	ErrCodeRemedyNotNeed:  "当前无需该修复牌",
}
