package handler

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/types"
)

// playerName 请求中没有昵称时使用连接分配的昵称
func playerName(client types.ClientInterface, requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	return client.GetName()
}

// handleJoinRoom 处理加入房间（不存在时创建，比赛中同名则重连）
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	name := playerName(client, payload.PlayerName)
	r, p, reconnected, err := h.roomManager.JoinRoom(client, name, payload.RoomID, payload.GoalDistance)
	if err != nil {
		h.replyError(client, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"room":        r.ID,
		"player":      p.Name,
		"reconnected": reconnected,
	}).Debug("加入房间")
}

// handleQuickMatch 处理快速匹配
func (h *Handler) handleQuickMatch(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.QuickMatchPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if _, _, err := h.matcher.QuickJoin(client, playerName(client, payload.PlayerName)); err != nil {
		h.replyError(client, err)
	}
}

// handleLeaveRoom 处理离开房间，回到大厅后推送房间列表
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	if err := h.roomManager.LeaveRoom(client); err != nil {
		h.replyError(client, err)
		return
	}
	h.handleGetRoomList(client)
}

// handleGetRoomList 获取房间列表
func (h *Handler) handleGetRoomList(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
		Rooms: h.roomManager.GetRoomList(),
	}))
}
