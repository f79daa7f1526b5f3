package apperrors

import (
	"errors"

	"github.com/palemoky/road-race/internal/protocol"
)

// GameError 游戏错误（房间和引擎共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrInvalidName   = newError(protocol.ErrCodeInvalidName)
	ErrRoomNotFound  = newError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull      = newError(protocol.ErrCodeRoomFull)
	ErrNotInRoom     = newError(protocol.ErrCodeNotInRoom)
	ErrGameStarted   = newError(protocol.ErrCodeGameStarted)
	ErrRoomFinished  = newError(protocol.ErrCodeRoomFinished)
	ErrNameTaken     = newError(protocol.ErrCodeNameTaken)
	ErrInvalidGoal   = newError(protocol.ErrCodeInvalidGoal)
	ErrAlreadyInRoom = newError(protocol.ErrCodeAlreadyInRoom)
	ErrInvalidRoomID = newError(protocol.ErrCodeInvalidRoomID)

	ErrGameNotStart   = newError(protocol.ErrCodeGameNotStart)
	ErrNotYourTurn    = newError(protocol.ErrCodeNotYourTurn)
	ErrCardNotFound   = newError(protocol.ErrCodeCardNotFound)
	ErrMustPlayGo     = newError(protocol.ErrCodeMustPlayGo)
	ErrHazardActive   = newError(protocol.ErrCodeHazardActive)
	ErrSpeedLimit     = newError(protocol.ErrCodeSpeedLimit)
	ErrOvershoot      = newError(protocol.ErrCodeOvershoot)
	ErrTargetRequired = newError(protocol.ErrCodeTargetRequired)
	ErrInvalidTarget  = newError(protocol.ErrCodeInvalidTarget)
	ErrRemedyNotNeed  = newError(protocol.ErrCodeRemedyNotNeed)
)

// ErrStale 指令引用的房间或玩家已不存在，调用方应静默忽略
var ErrStale = errors.New("stale command")

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// AsGameError 提取错误链中的 GameError
func AsGameError(err error) (*GameError, bool) {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
