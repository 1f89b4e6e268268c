package domain

import "time"

// MatchResult is the record archived when a game finishes.
type MatchResult struct {
	ID         string         `json:"id"`
	RoomCode   string         `json:"roomCode"`
	Players    []string       `json:"players"`
	Winner     string         `json:"winner"`
	Reason     string         `json:"reason"`
	Scores     map[string]int `json:"scores"`
	FinishedAt time.Time      `json:"finishedAt"`
}
