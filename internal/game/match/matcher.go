// Package match 实现快速匹配：优先加入人数最多的等待中房间，没有时新建一个
package match

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/player"
	"github.com/palemoky/road-race/internal/game/room"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/types"
)

// 房间在选中与加入之间被占满或开局时的重试次数
const maxAttempts = 3

// MatcherDeps 匹配器依赖
type MatcherDeps struct {
	RoomManager *room.RoomManager
	Logger      *logrus.Entry
}

// Matcher 匹配系统
type Matcher struct {
	roomManager *room.RoomManager
	log         *logrus.Entry
}

// NewMatcher 创建匹配器
func NewMatcher(deps MatcherDeps) *Matcher {
	if deps.Logger == nil {
		deps.Logger = logger.Component("match")
	}
	return &Matcher{
		roomManager: deps.RoomManager,
		log:         deps.Logger,
	}
}

// QuickJoin 快速加入，没有空位时以默认目标距离新建房间
func (m *Matcher) QuickJoin(client types.ClientInterface, name string) (*room.Room, *player.Player, error) {
	var lastErr error
	for range maxAttempts {
		roomID := ""
		if open := m.roomManager.FindOpenRoom(); open != nil {
			roomID = open.ID
		}

		r, p, _, err := m.roomManager.JoinRoom(client, name, roomID, 0)
		if err == nil {
			m.log.WithFields(logrus.Fields{"player": p.Name, "room": r.ID}).Info("🔍 快速匹配成功")
			return r, p, nil
		}
		// 刚好被别人占满或已开局，重新挑选
		if roomID != "" && (errors.Is(err, apperrors.ErrRoomFull) || errors.Is(err, apperrors.ErrGameStarted)) {
			lastErr = err
			continue
		}
		return nil, nil, err
	}
	return nil, nil, lastErr
}
