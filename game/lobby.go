package game

import (
	"context"

	"github.com/rs/zerolog"
)

type lobbyJoinRequest struct {
	roomCode string
	player   Player
	errChan  chan error
}

// lobby is the registry actor owning the roomCode→Room map. Room creation and
// teardown happen inside the actor, so concurrent joins for the same code can
// never race into two rooms.
type lobby struct {
	rooms          map[string]Room
	newRoom        RoomFactory
	logger         zerolog.Logger
	joinReqs       chan lobbyJoinRequest
	removeRoomChan chan string
}

func NewLobby(factory RoomFactory, logger zerolog.Logger) *lobby {
	return &lobby{
		rooms:          map[string]Room{},
		newRoom:        factory,
		logger:         logger,
		joinReqs:       make(chan lobbyJoinRequest, 256),
		removeRoomChan: make(chan string, 32),
	}
}

// Join routes a player into the room for roomCode, creating the room on
// first join. The returned error is the room's verdict (nil on success).
func (l *lobby) Join(ctx context.Context, roomCode string, p Player) error {
	errChan := make(chan error, 1)
	select {
	case l.joinReqs <- lobbyJoinRequest{roomCode: roomCode, player: p, errChan: errChan}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lobby) RemoveRoom(roomCode string) {
	l.removeRoomChan <- roomCode
}

func (l *lobby) LobbyActor(started chan struct{}) {
	close(started)

	for {
		select {
		case req := <-l.joinReqs:
			l.handleJoinReq(req)
		case roomCode := <-l.removeRoomChan:
			l.handleRemoveRoom(roomCode)
		}
	}
}

func (l *lobby) handleJoinReq(req lobbyJoinRequest) {
	room, exists := l.rooms[req.roomCode]
	if !exists {
		room = l.newRoom(req.roomCode)
		room.SetParentLobby(l)
		l.rooms[req.roomCode] = room
		go room.GameLoop()
		l.logger.Info().Str("room", req.roomCode).Msg("room created")
	}
	room.RequestJoin(roomJoinRequest{player: req.player, errChan: req.errChan})
}

func (l *lobby) handleRemoveRoom(roomCode string) {
	room, ok := l.rooms[roomCode]
	if !ok {
		return
	}
	// The room asked for teardown when its last player left, but someone may
	// have joined it since. Such a request is stale; the room will ask again.
	if room.MemberCount() > 0 {
		l.logger.Debug().Str("room", roomCode).Msg("skipping stale room removal")
		return
	}
	delete(l.rooms, roomCode)
	room.CloseAndRelease()
	l.logger.Info().Str("room", roomCode).Msg("room removed")
}
