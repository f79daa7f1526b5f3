package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/road-race/internal/apperrors"
	"github.com/palemoky/road-race/internal/game/room"
	"github.com/palemoky/road-race/internal/logger"
	"github.com/palemoky/road-race/internal/testutil"
)

func newTestMatcher(t *testing.T) (*Matcher, *room.RoomManager) {
	t.Helper()

	rm := room.NewRoomManager(room.Deps{
		Scheduler: testutil.NewManualScheduler(),
		Logger:    logger.Discard(),
	})
	t.Cleanup(rm.Close)
	return NewMatcher(MatcherDeps{RoomManager: rm, Logger: logger.Discard()}), rm
}

func TestMatcher_CreatesRoomWhenNoneOpen(t *testing.T) {
	t.Parallel()

	m, rm := newTestMatcher(t)
	c := testutil.NewSimpleClient("c1", "Alice")

	r, p, err := m.QuickJoin(c, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Len(t, r.ID, 6)
	assert.Equal(t, rm.Rules().DefaultGoal, r.Goal)
	assert.Equal(t, r.ID, c.GetRoom())
}

func TestMatcher_FillsExistingRoom(t *testing.T) {
	t.Parallel()

	m, rm := newTestMatcher(t)
	first, _, _, err := rm.JoinRoom(testutil.NewSimpleClient("c1", "Alice"), "Alice", "lobby", 0)
	require.NoError(t, err)

	r, _, err := m.QuickJoin(testutil.NewSimpleClient("c2", "Bob"), "Bob")
	require.NoError(t, err)
	assert.Same(t, first, r)
	assert.Equal(t, 2, r.PlayerCount())
}

func TestMatcher_SkipsStartedAndFullRooms(t *testing.T) {
	t.Parallel()

	m, rm := newTestMatcher(t)

	starter := testutil.NewSimpleClient("s", "Starter")
	_, _, _, err := rm.JoinRoom(starter, "Starter", "started", 0)
	require.NoError(t, err)
	require.NoError(t, rm.StartGame(starter))

	for i := range rm.Rules().MaxPlayers {
		name := fmt.Sprintf("P%d", i)
		_, _, _, err := rm.JoinRoom(testutil.NewSimpleClient(name, name), name, "full", 0)
		require.NoError(t, err)
	}

	r, _, err := m.QuickJoin(testutil.NewSimpleClient("c1", "Alice"), "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, "started", r.ID)
	assert.NotEqual(t, "full", r.ID)
}

func TestMatcher_NameTakenIsReturned(t *testing.T) {
	t.Parallel()

	m, rm := newTestMatcher(t)
	_, _, _, err := rm.JoinRoom(testutil.NewSimpleClient("c1", "Alice"), "Alice", "lobby", 0)
	require.NoError(t, err)

	_, _, err = m.QuickJoin(testutil.NewSimpleClient("c2", "alice"), "alice")
	assert.ErrorIs(t, err, apperrors.ErrNameTaken)
}
