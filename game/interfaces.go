package game

import (
	"context"

	"shiritori/domain"
)

// NetworkSession abstracts the websocket so handlers and pumps can be tested
// without a live connection.
type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Player is one live connection bound to a player name. The same name may be
// carried by several connections over a room's lifetime (re-joins).
type Player interface {
	Username() string
	Send(data []byte) error
	SetRoom(r Room)
	CancelAndRelease()
}

type Room interface {
	RequestJoin(req roomJoinRequest)
	Send(ctx context.Context, env clientEnvelope)
	RemoveMe(ctx context.Context, p Player)
	SetParentLobby(l Lobby)
	MemberCount() int
	GameLoop()
	CloseAndRelease()
}

type Lobby interface {
	Join(ctx context.Context, roomCode string, p Player) error
	RemoveRoom(roomCode string)
}

// RuleChecker serves the diagnostic check-hidden-rule endpoint.
type RuleChecker interface {
	CheckRule(ctx context.Context, ruleID, word string) (bool, error)
}

// MatchRecorder archives finished games. Recording is best-effort; rooms log
// and carry on when it fails.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, result domain.MatchResult) error
}

// MatchArchive lists archived games for the read-side endpoint.
type MatchArchive interface {
	RecentMatches(ctx context.Context, limit int) ([]domain.MatchResult, error)
}

type clientEnvelope struct {
	from Player
	msg  domain.ClientMessage
}

type roomJoinRequest struct {
	player  Player
	errChan chan error
}
