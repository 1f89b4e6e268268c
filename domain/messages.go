package domain

// Wire protocol. Everything that crosses a websocket is one of these JSON
// envelopes; rule predicates and the delegated flag never appear here.

const (
	TypeJoin      = "join"
	TypeWord      = "word"
	TypeCheckRule = "checkRule"

	TypeGameState          = "gameState"
	TypeError              = "error"
	TypePointGained        = "pointGained"
	TypeHint               = "hint"
	TypeGameOver           = "gameOver"
	TypePlayerDisconnected = "playerDisconnected"
	TypeCheckRuleResult    = "checkRuleResult"
)

type ClientMessage struct {
	Type       string `json:"type"`
	RoomCode   string `json:"roomCode,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Word       string `json:"word,omitempty"`
	RuleID     string `json:"ruleId,omitempty"`
}

// RuleInfo is the client-facing view of a rule without its achieved marker,
// used for the candidate/decoy display.
type RuleInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// RuleRef identifies a rule inside an audit record.
type RuleRef struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// SanitizedRule is the only outward representation of an active hidden rule.
type SanitizedRule struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      int     `json:"points"`
	AchievedBy  *string `json:"achievedByPlayer"`
}

type TurnRecord struct {
	Player        string    `json:"player"`
	Word          string    `json:"word"`
	Points        int       `json:"points"`
	RulesAchieved []RuleRef `json:"rulesAchieved"`
}

type SanitizedState struct {
	Players              []string        `json:"players"`
	History              []string        `json:"history"`
	Turn                 int             `json:"turn"`
	HiddenRules          []SanitizedRule `json:"hiddenRules"`
	CandidateHiddenRules []RuleInfo      `json:"candidateHiddenRules"`
	Scores               map[string]int  `json:"scores"`
	Winner               *string         `json:"winner"`
	WordsSaidCount       map[string]int  `json:"wordsSaidCount"`
	NoPointTurns         int             `json:"noPointTurns"`
	FirstCharacter       string          `json:"firstCharacter,omitempty"`
	GameOverReason       string          `json:"gameOverReason,omitempty"`
	HistoryDetails       []TurnRecord    `json:"historyDetails,omitempty"`
}

type ServerMessage struct {
	Type          string          `json:"type"`
	GameState     *SanitizedState `json:"gameState,omitempty"`
	Message       string          `json:"message,omitempty"`
	Player        string          `json:"player,omitempty"`
	Points        int             `json:"points,omitempty"`
	RulesAchieved []RuleInfo      `json:"rulesAchieved,omitempty"`
	NewScore      int             `json:"newScore,omitempty"`
	Options       []string        `json:"options,omitempty"`
	Winner        string          `json:"winner,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Result        *bool           `json:"result,omitempty"`
}

func MakeGameStateMessage(state *SanitizedState) ServerMessage {
	return ServerMessage{Type: TypeGameState, GameState: state}
}

func MakeErrorMessage(message string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: message}
}

func MakePointGainedMessage(player string, points int, rulesAchieved []RuleInfo, newScore int) ServerMessage {
	return ServerMessage{
		Type:          TypePointGained,
		Player:        player,
		Points:        points,
		RulesAchieved: rulesAchieved,
		NewScore:      newScore,
	}
}

func MakeHintMessage(options []string, message string) ServerMessage {
	return ServerMessage{Type: TypeHint, Options: options, Message: message}
}

func MakeGameOverMessage(winner, reason string) ServerMessage {
	return ServerMessage{Type: TypeGameOver, Winner: winner, Reason: reason}
}

func MakePlayerDisconnectedMessage(player string) ServerMessage {
	return ServerMessage{Type: TypePlayerDisconnected, Player: player}
}

func MakeCheckRuleResultMessage(result bool) ServerMessage {
	return ServerMessage{Type: TypeCheckRuleResult, Result: &result}
}
