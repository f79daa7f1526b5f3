package handler

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/match"
	"github.com/palemoky/road-race/internal/game/room"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/server/storage"
	"github.com/palemoky/road-race/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	RoomManager *room.RoomManager
	Matcher     *match.Matcher
	Leaderboard *storage.LeaderboardManager
	Logger      *logrus.Entry
}

// Handler 消息处理器
type Handler struct {
	server      types.ServerInterface
	roomManager *room.RoomManager
	matcher     *match.Matcher
	leaderboard *storage.LeaderboardManager
	log         *logrus.Entry
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	if deps.Logger == nil {
		deps.Logger = logger.Component("handler")
	}
	h := &Handler{
		server:      deps.Server,
		roomManager: deps.RoomManager,
		matcher:     deps.Matcher,
		leaderboard: deps.Leaderboard,
		log:         deps.Logger,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 房间操作
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgQuickMatch: h.handleQuickMatch,
		protocol.MsgLeaveRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },
		protocol.MsgStartGame:  func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },

		// 比赛操作
		protocol.MsgPlayCard:    h.handlePlayCard,
		protocol.MsgDiscardCard: h.handleDiscardCard,

		// 信息查询
		protocol.MsgGetRoomList:    func(c types.ClientInterface, _ *protocol.Message) { h.handleGetRoomList(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息，单条消息的 panic 不会影响连接
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(h.log.WithField("type", msg.Type), r)
			client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
		}
	}()

	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	h.log.WithFields(logrus.Fields{
		"type":    msg.Type,
		"player":  client.GetName(),
		"conn":    client.GetID(),
		"payload": len(msg.Payload),
	}).Warn("⚠️ 未知消息类型")
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// OnDisconnect 连接断开时由服务器调用
func (h *Handler) OnDisconnect(client types.ClientInterface) {
	h.roomManager.Disconnect(client)
}

// replyError 把错误转换为 error 消息；被顶替连接的命令直接忽略
func (h *Handler) replyError(client types.ClientInterface, err error) {
	if errors.Is(err, apperrors.ErrStale) {
		h.log.WithField("conn", client.GetID()).Debug("忽略过期连接的命令")
		return
	}
	if gameErr, ok := apperrors.AsGameError(err); ok {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	h.log.WithError(err).WithField("conn", client.GetID()).Error("处理消息失败")
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
}
