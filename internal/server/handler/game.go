package handler

import (
	"github.com/palemoky/road-race/internal/protocol"
	"github.com/palemoky/road-race/internal/protocol/codec"
	"github.com/palemoky/road-race/internal/types"
)

// handleStartGame 处理开始比赛
func (h *Handler) handleStartGame(client types.ClientInterface) {
	if err := h.roomManager.StartGame(client); err != nil {
		h.replyError(client, err)
	}
}

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if _, err := h.roomManager.PlayCard(client, payload.HandIndex, payload.TargetID); err != nil {
		h.replyError(client, err)
	}
}

// handleDiscardCard 处理弃牌
func (h *Handler) handleDiscardCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.DiscardCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := h.roomManager.Discard(client, payload.HandIndex); err != nil {
		h.replyError(client, err)
	}
}
