package game

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func startTestLobby(t *testing.T, factory RoomFactory) *lobby {
	t.Helper()
	l := NewLobby(factory, zerolog.Nop())
	started := make(chan struct{})
	go l.LobbyActor(started)
	<-started
	return l
}

func grantingRoom(l *lobby, members int) *MockRoom {
	r := &MockRoom{}
	r.On("SetParentLobby", l).Return().Once()
	r.On("GameLoop").Return().Maybe()
	r.On("MemberCount").Return(members).Maybe()
	r.On("RequestJoin", mock.Anything).Run(func(args mock.Arguments) {
		close(args.Get(0).(roomJoinRequest).errChan)
	}).Return()
	return r
}

func TestLobby_JoinCreatesRoomOnce(t *testing.T) {
	t.Parallel()

	var created []*MockRoom
	var l *lobby
	l = startTestLobby(t, func(code string) Room {
		r := grantingRoom(l, 0)
		created = append(created, r)
		return r
	})

	naruto := &MockPlayer{}
	sasuke := &MockPlayer{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()

	require.NoError(t, l.Join(ctx, "roomid", naruto))
	require.NoError(t, l.Join(ctx, "roomid", sasuke))
	require.NoError(t, l.Join(ctx, "other", &MockPlayer{}))

	// Two codes, two rooms; the second join reused the first room.
	assert.Len(t, created, 2)
	created[0].AssertNumberOfCalls(t, "RequestJoin", 2)
	created[1].AssertNumberOfCalls(t, "RequestJoin", 1)
	created[0].AssertExpectations(t)
}

func TestLobby_JoinSurfacesRoomError(t *testing.T) {
	t.Parallel()

	var l *lobby
	l = startTestLobby(t, func(code string) Room {
		r := &MockRoom{}
		r.On("SetParentLobby", mock.Anything).Return()
		r.On("GameLoop").Return().Maybe()
		r.On("RequestJoin", mock.Anything).Run(func(args mock.Arguments) {
			req := args.Get(0).(roomJoinRequest)
			req.errChan <- assert.AnError
			close(req.errChan)
		}).Return()
		return r
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	assert.ErrorIs(t, l.Join(ctx, "roomid", &MockPlayer{}), assert.AnError)
}

func TestLobby_RemoveRoomClosesAndForgets(t *testing.T) {
	t.Parallel()

	closed := make(chan struct{})
	var rooms []*MockRoom
	var l *lobby
	l = startTestLobby(t, func(code string) Room {
		r := grantingRoom(l, 0)
		if len(rooms) == 0 {
			r.On("CloseAndRelease").Run(func(mock.Arguments) { close(closed) }).Return().Once()
		}
		rooms = append(rooms, r)
		return r
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	require.NoError(t, l.Join(ctx, "roomid", &MockPlayer{}))

	l.RemoveRoom("roomid")
	select {
	case <-closed:
	case <-time.After(time.Second * 2):
		t.Fatal("room was never closed")
	}

	// The code is free again: joining it builds a fresh room.
	require.NoError(t, l.Join(ctx, "roomid", &MockPlayer{}))
	assert.Len(t, rooms, 2)
}

func TestLobby_StaleRemoveRoomIsSkipped(t *testing.T) {
	t.Parallel()

	var rooms []*MockRoom
	var l *lobby
	l = startTestLobby(t, func(code string) Room {
		r := grantingRoom(l, 1)
		rooms = append(rooms, r)
		return r
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	require.NoError(t, l.Join(ctx, "roomid", &MockPlayer{}))

	// A teardown request racing a fresh join must not kill the room.
	l.RemoveRoom("roomid")
	require.NoError(t, l.Join(ctx, "roomid", &MockPlayer{}))

	assert.Len(t, rooms, 1)
	rooms[0].AssertNumberOfCalls(t, "RequestJoin", 2)
	rooms[0].AssertNotCalled(t, "CloseAndRelease")
}

func TestLobby_JoinHonorsContext(t *testing.T) {
	t.Parallel()

	blocked := make(chan struct{})
	l := startTestLobby(t, func(code string) Room {
		r := &MockRoom{}
		r.On("SetParentLobby", mock.Anything).Return()
		r.On("GameLoop").Return().Maybe()
		r.On("RequestJoin", mock.Anything).Run(func(mock.Arguments) {
			<-blocked // never answers
		}).Return()
		return r
	})
	defer close(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	assert.ErrorIs(t, l.Join(ctx, "roomid", &MockPlayer{}), context.DeadlineExceeded)
}
