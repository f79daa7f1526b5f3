//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/road-race/internal/protocol"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) BroadcastToLobby(msg *protocol.Message) {
	m.Called(msg)
}

// LobbyRecorder 记录大厅广播的轻量 ServerInterface
type LobbyRecorder struct {
	SimpleClient
}

func (l *LobbyRecorder) GetOnlineCount() int {
	return 0
}

func (l *LobbyRecorder) BroadcastToLobby(msg *protocol.Message) {
	l.SendMessage(msg)
}
