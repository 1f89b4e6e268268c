package domain

import "errors"

var (
	ErrRoomFull        = errors.New("ルームが満員です")
	ErrNotYourTurn     = errors.New("相手のターンです")
	ErrChainMismatch   = errors.New("前の単語の最後の文字で始めてください")
	ErrForbiddenEnding = errors.New("「ん」で終わる単語は使えません (特別なルールがない限り)")
	ErrGameFinished    = errors.New("ゲームは既に終了しています")
	ErrEmptyWord       = errors.New("単語を入力してください")
)

var (
	ErrInvalidRoomCode      = errors.New("invalid-room-code")
	ErrUnknownRule          = errors.New("unknown-rule")
	ErrInvalidMessage       = errors.New("invalid-message-format")
	UnexpectedDatabaseError = errors.New("database-error")
	ErrArchiveDisabled      = errors.New("match-archive-disabled")
	ErrJoinMessageExpected  = errors.New("expected-join-message")
	ErrPlayerNameRequired   = errors.New("player-name-required")
)
