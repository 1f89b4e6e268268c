package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shiritori/domain"
)

// ScoreThreshold ends the game as soon as any player reaches it.
const ScoreThreshold = 5

const maxPlayersPerRoom = 2

// Oracle answers a yes/no natural-language question about a word. It must
// fail closed: any failure is reported as false, never as an error.
type Oracle interface {
	Judge(ctx context.Context, question string) bool
}

// GameState is one room's authoritative state. It is owned by the room actor
// and mutated only through Engine.ProcessWord.
type GameState struct {
	Players        []string
	History        []string
	Turn           int
	HiddenRules    []*Rule
	CandidateRules []domain.RuleInfo
	Scores         map[string]int
	WordsSaidCount map[string]int
	NoPointTurns   int
	FirstCharacter rune
	Winner         string
	GameOverReason string
	HistoryDetails []domain.TurnRecord
	Complete       bool
}

func NewGameState(firstCharacter rune, rules []*Rule, candidates []domain.RuleInfo) *GameState {
	return &GameState{
		Players:        make([]string, 0, maxPlayersPerRoom),
		History:        make([]string, 0, 16),
		HiddenRules:    rules,
		CandidateRules: candidates,
		Scores:         make(map[string]int),
		WordsSaidCount: make(map[string]int),
		FirstCharacter: firstCharacter,
	}
}

// AddPlayer registers a player name. Re-adding a known name is a no-op; a
// third distinct name is rejected.
func (st *GameState) AddPlayer(name string) error {
	for _, p := range st.Players {
		if p == name {
			return nil
		}
	}
	if len(st.Players) >= maxPlayersPerRoom {
		return domain.ErrRoomFull
	}
	st.Players = append(st.Players, name)
	st.Scores[name] = 0
	st.WordsSaidCount[name] = 0
	return nil
}

func (st *GameState) playerIndex(name string) int {
	for i, p := range st.Players {
		if p == name {
			return i
		}
	}
	return -1
}

// Sanitized builds the outward view of the state. Rule predicates and the
// delegated flag never survive this conversion.
func (st *GameState) Sanitized() *domain.SanitizedState {
	rules := make([]domain.SanitizedRule, 0, len(st.HiddenRules))
	for _, r := range st.HiddenRules {
		rules = append(rules, r.Sanitized())
	}
	out := &domain.SanitizedState{
		Players:              append([]string{}, st.Players...),
		History:              append([]string{}, st.History...),
		Turn:                 st.Turn,
		HiddenRules:          rules,
		CandidateHiddenRules: append([]domain.RuleInfo{}, st.CandidateRules...),
		Scores:               make(map[string]int, len(st.Scores)),
		WordsSaidCount:       make(map[string]int, len(st.WordsSaidCount)),
		NoPointTurns:         st.NoPointTurns,
		FirstCharacter:       string(st.FirstCharacter),
		GameOverReason:       st.GameOverReason,
		HistoryDetails:       append([]domain.TurnRecord{}, st.HistoryDetails...),
	}
	for name, score := range st.Scores {
		out.Scores[name] = score
	}
	for name, count := range st.WordsSaidCount {
		out.WordsSaidCount[name] = count
	}
	if st.Winner != "" {
		winner := st.Winner
		out.Winner = &winner
	}
	return out
}

// HintInfo is a 3-option hint emitted after two consecutive scoreless turns.
type HintInfo struct {
	TargetRuleID string
	Options      []string
	Message      string
}

// TurnResult describes an accepted word's consequences.
type TurnResult struct {
	Points        int
	RulesAchieved []domain.RuleInfo
	NewScore      int
	Hint          *HintInfo
	GameOver      bool
	Winner        string
	Reason        string
}

// Engine validates words and applies the scoring rules for one room.
type Engine struct {
	oracle      Oracle
	selector    *Selector
	wordCeiling int
	logger      zerolog.Logger
}

func NewEngine(oracle Oracle, selector *Selector, wordCeiling int, logger zerolog.Logger) *Engine {
	return &Engine{
		oracle:      oracle,
		selector:    selector,
		wordCeiling: wordCeiling,
		logger:      logger,
	}
}

// ProcessWord runs the full turn pipeline: validation (each step rejecting
// with no mutation), history mutation, rule evaluation and scoring, hint
// emission and win detection.
func (e *Engine) ProcessWord(ctx context.Context, st *GameState, playerName, word string) (TurnResult, error) {
	if st.Complete {
		return TurnResult{}, domain.ErrGameFinished
	}
	if word == "" {
		return TurnResult{}, domain.ErrEmptyWord
	}
	idx := st.playerIndex(playerName)
	if idx != st.Turn {
		return TurnResult{}, domain.ErrNotYourTurn
	}

	previousWord := ""
	if len(st.History) > 0 {
		previousWord = st.History[len(st.History)-1]
	}

	if previousWord != "" {
		if linkingCharOut(word) != linkingCharIn(previousWord) {
			return TurnResult{}, domain.ErrChainMismatch
		}
	} else if foldKana([]rune(word)[0]) != foldKana(st.FirstCharacter) {
		return TurnResult{}, fmt.Errorf("最初の単語は「%c」から始めてください", st.FirstCharacter)
	}

	if localPatterns[patternEndsWithN](word, "") && !e.nEndingPermitted(ctx, st, word, previousWord) {
		return TurnResult{}, domain.ErrForbiddenEnding
	}

	// All checks passed; from here on the turn is committed.
	st.History = append(st.History, word)
	st.WordsSaidCount[playerName]++

	result := TurnResult{}
	achievedRefs := make([]domain.RuleRef, 0, len(st.HiddenRules))
	for _, rule := range st.HiddenRules {
		if !e.evaluate(ctx, rule.RuleDef, word, previousWord) {
			continue
		}
		result.Points += rule.Points
		result.RulesAchieved = append(result.RulesAchieved, rule.Info())
		achievedRefs = append(achievedRefs, domain.RuleRef{ID: rule.ID, Description: rule.Description})
		if rule.AchievedBy == "" {
			rule.AchievedBy = playerName
		}
	}

	st.HistoryDetails = append(st.HistoryDetails, domain.TurnRecord{
		Player:        playerName,
		Word:          word,
		Points:        result.Points,
		RulesAchieved: achievedRefs,
	})

	if result.Points > 0 {
		st.Scores[playerName] += result.Points
		st.NoPointTurns = 0
	} else {
		st.NoPointTurns++
		if st.NoPointTurns >= 2 {
			if target := e.selector.PickUnachieved(st.HiddenRules); target != nil {
				options := e.selector.HintOptions(target, hintDecoys)
				result.Hint = &HintInfo{
					TargetRuleID: target.ID,
					Options:      options,
					Message:      "ヒント：隠し条件のうち一つは次のいずれかです： " + strings.Join(options, "、"),
				}
				st.NoPointTurns = 0
			}
		}
	}
	result.NewScore = st.Scores[playerName]

	if st.Scores[playerName] >= ScoreThreshold {
		st.Winner = playerName
		st.GameOverReason = fmt.Sprintf("%sが%dポイント獲得しました！", playerName, ScoreThreshold)
		st.Complete = true
		result.GameOver = true
		result.Winner = st.Winner
		result.Reason = st.GameOverReason
		return result, nil
	}

	allSaidEnough := true
	for _, p := range st.Players {
		if st.WordsSaidCount[p] < e.wordCeiling {
			allSaidEnough = false
			break
		}
	}
	if allSaidEnough {
		maxScore := -1
		winners := []string{}
		for _, p := range st.Players {
			switch {
			case st.Scores[p] > maxScore:
				maxScore = st.Scores[p]
				winners = []string{p}
			case st.Scores[p] == maxScore:
				winners = append(winners, p)
			}
		}
		st.Winner = strings.Join(winners, ", ")
		st.GameOverReason = fmt.Sprintf("各プレイヤーが%d単語言い終わりました。", e.wordCeiling)
		st.Complete = true
		result.GameOver = true
		result.Winner = st.Winner
		result.Reason = st.GameOverReason
		return result, nil
	}

	st.Turn = (st.Turn + 1) % len(st.Players)
	return result, nil
}

// CheckRule evaluates a single catalog rule against a word, for the
// diagnostic endpoint. No previous-word context is available there.
func (e *Engine) CheckRule(ctx context.Context, ruleID, word string) (bool, error) {
	def, ok := FindRule(ruleID)
	if !ok {
		return false, domain.ErrUnknownRule
	}
	return e.evaluate(ctx, def, word, ""), nil
}

func (e *Engine) evaluate(ctx context.Context, def RuleDef, word, previousWord string) bool {
	switch def.Predicate.Kind {
	case PredicateLocal:
		pattern, ok := localPatterns[def.Predicate.PatternID]
		if !ok {
			e.logger.Error().Str("rule", def.ID).Str("pattern", def.Predicate.PatternID).
				Msg("rule references unknown local pattern")
			return false
		}
		return pattern(word, previousWord)
	case PredicateDelegated:
		if def.Predicate.UsesPreviousWord && previousWord == "" {
			return false
		}
		return e.oracle.Judge(ctx, def.Question(word, previousWord))
	default:
		return false
	}
}

// nEndingPermitted reports whether the designated ん-ending rule is both
// active and satisfied by this word.
func (e *Engine) nEndingPermitted(ctx context.Context, st *GameState, word, previousWord string) bool {
	for _, rule := range st.HiddenRules {
		if rule.ID == NEndingRuleID {
			return e.evaluate(ctx, rule.RuleDef, word, previousWord)
		}
	}
	return false
}

// linkingCharIn is the character a following word must start with: the last
// rune after dropping one trailing long-vowel mark.
func linkingCharIn(word string) rune {
	runes := []rune(word)
	if len(runes) > 1 && runes[len(runes)-1] == longVowelMark {
		runes = runes[:len(runes)-1]
	}
	return foldKana(runes[len(runes)-1])
}

// linkingCharOut is the character a word offers to the chain: the first rune
// after dropping one leading long-vowel mark.
func linkingCharOut(word string) rune {
	runes := []rune(word)
	if len(runes) > 1 && runes[0] == longVowelMark {
		runes = runes[1:]
	}
	return foldKana(runes[0])
}

// foldKana maps katakana onto hiragana and lowercases latin so the chain
// comparison is script- and case-insensitive.
func foldKana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
