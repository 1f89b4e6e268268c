package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shiritori/domain"
)

const recordMatchTimeout = time.Second * 5

type dataSendTask struct {
	to   Player
	data []byte
}

// room is the actor owning one game session. Every event for a room code —
// joins, words, rule checks, disconnects — is funneled through GameLoop, so
// GameState needs no further locking.
type room struct {
	code     string
	state    *GameState
	engine   *Engine
	recorder MatchRecorder
	logger   zerolog.Logger

	parentLobby Lobby
	players     []Player
	members     atomic.Int32

	inbox    chan clientEnvelope
	joinReqs chan roomJoinRequest
	removeMe chan Player
	done     chan struct{}
	doneOnce sync.Once

	// Outbound messages accumulate here during event handling and are
	// flushed best-effort afterwards.
	dataSendTasks []dataSendTask
}

func newRoom(code string, selector *Selector, oracle Oracle, wordCeiling int, recorder MatchRecorder, logger zerolog.Logger) *room {
	rules := selector.ActiveRules()
	candidates := selector.CandidateSet(rules)
	firstCharacter := selector.FirstCharacter()

	return &room{
		code:     code,
		state:    NewGameState(firstCharacter, rules, candidates),
		engine:   NewEngine(oracle, selector, wordCeiling, logger),
		recorder: recorder,
		logger:   logger,
		inbox:    make(chan clientEnvelope, 64),
		joinReqs: make(chan roomJoinRequest, 8),
		removeMe: make(chan Player, 8),
		done:     make(chan struct{}),
	}
}

// RoomFactory builds a room for a freshly claimed room code.
type RoomFactory func(code string) Room

func NewRoomFactory(oracle Oracle, wordCeiling int, recorder MatchRecorder, logger zerolog.Logger) RoomFactory {
	return func(code string) Room {
		selector := NewSelector(rand.NewSource(time.Now().UnixNano()))
		return newRoom(code, selector, oracle, wordCeiling, recorder,
			logger.With().Str("room", code).Logger())
	}
}

func (r *room) SetParentLobby(l Lobby) { r.parentLobby = l }

// MemberCount is read by the lobby to discard a stale teardown request when a
// player joined while it was in flight.
func (r *room) MemberCount() int { return int(r.members.Load()) }

func (r *room) RequestJoin(req roomJoinRequest) {
	select {
	case r.joinReqs <- req:
	case <-r.done:
		req.errChan <- domain.ErrInvalidRoomCode
		close(req.errChan)
	}
}

func (r *room) Send(ctx context.Context, env clientEnvelope) {
	select {
	case r.inbox <- env:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.removeMe <- p:
	case <-r.done:
		p.CancelAndRelease()
	case <-ctx.Done():
	}
}

func (r *room) GameLoop() {
	for {
		select {
		case env := <-r.inbox:
			r.handleEnvelope(env)
		case req := <-r.joinReqs:
			r.handleJoinRequest(req)
		case p := <-r.removeMe:
			r.handleRemovePlayer(p)
		case <-r.done:
			r.drainPendingJoins()
			return
		}
		r.flushSendTasks()
	}
}

func (r *room) CloseAndRelease() {
	r.doneOnce.Do(func() { close(r.done) })
	for _, p := range r.players {
		p.CancelAndRelease()
	}
}

// drainPendingJoins hands join requests still queued at shutdown back to the
// lobby, which routes them into a fresh room under the same code.
func (r *room) drainPendingJoins() {
	for {
		select {
		case req := <-r.joinReqs:
			if r.parentLobby == nil {
				req.errChan <- domain.ErrInvalidRoomCode
				close(req.errChan)
				continue
			}
			go func(req roomJoinRequest) {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
				defer cancel()
				if err := r.parentLobby.Join(ctx, r.code, req.player); err != nil {
					req.errChan <- err
				}
				close(req.errChan)
			}(req)
		default:
			return
		}
	}
}

func (r *room) handleEnvelope(env clientEnvelope) {
	switch env.msg.Type {
	case domain.TypeWord:
		r.handleWordEnvelope(env.from, env.msg.Word)
	case domain.TypeCheckRule:
		r.handleCheckRuleEnvelope(env.from, env.msg.Word, env.msg.RuleID)
	default:
		r.queueSend(env.from, domain.MakeErrorMessage(domain.ErrInvalidMessage.Error()))
	}
}

func (r *room) handleJoinRequest(req roomJoinRequest) {
	name := req.player.Username()
	if err := r.state.AddPlayer(name); err != nil {
		req.errChan <- err
		close(req.errChan)
		return
	}

	r.players = append(r.players, req.player)
	r.members.Store(int32(len(r.players)))
	req.player.SetRoom(r)
	close(req.errChan)

	r.logger.Info().Str("player", name).Int("connections", len(r.players)).Msg("player joined")

	stateMsg := domain.MakeGameStateMessage(r.state.Sanitized())
	r.queueSend(req.player, stateMsg)
	r.queueBroadcast(stateMsg)
}

func (r *room) handleWordEnvelope(from Player, word string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	playerName := from.Username()
	result, err := r.engine.ProcessWord(ctx, r.state, playerName, word)
	if err != nil {
		// Recoverable, player-visible rejection: only the offender hears it.
		r.queueSend(from, domain.MakeErrorMessage(err.Error()))
		return
	}

	if result.Points > 0 {
		r.queueBroadcast(domain.MakePointGainedMessage(playerName, result.Points, result.RulesAchieved, result.NewScore))
	}
	if result.Hint != nil {
		r.queueBroadcast(domain.MakeHintMessage(result.Hint.Options, result.Hint.Message))
	}
	if result.GameOver {
		r.logger.Info().Str("winner", result.Winner).Str("reason", result.Reason).Msg("game over")
		r.queueBroadcast(domain.MakeGameOverMessage(result.Winner, result.Reason))
		r.recordMatch()
	}

	r.queueBroadcast(domain.MakeGameStateMessage(r.state.Sanitized()))
}

func (r *room) handleCheckRuleEnvelope(from Player, word, ruleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	result, err := r.engine.CheckRule(ctx, ruleID, word)
	if err != nil {
		r.queueSend(from, domain.MakeErrorMessage(err.Error()))
		return
	}
	r.queueSend(from, domain.MakeCheckRuleResultMessage(result))
}

func (r *room) handleRemovePlayer(p Player) {
	for i, member := range r.players {
		if member == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.members.Store(int32(len(r.players)))
	p.CancelAndRelease()

	if len(r.players) == 0 {
		r.logger.Info().Msg("room empty, tearing down")
		if r.parentLobby != nil {
			r.parentLobby.RemoveRoom(r.code)
		}
		return
	}

	r.queueBroadcast(domain.MakePlayerDisconnectedMessage(p.Username()))
}

func (r *room) recordMatch() {
	if r.recorder == nil {
		return
	}
	result := domain.MatchResult{
		ID:         uuid.NewString(),
		RoomCode:   r.code,
		Players:    append([]string{}, r.state.Players...),
		Winner:     r.state.Winner,
		Reason:     r.state.GameOverReason,
		Scores:     make(map[string]int, len(r.state.Scores)),
		FinishedAt: time.Now().UTC(),
	}
	for name, score := range r.state.Scores {
		result.Scores[name] = score
	}

	recorder := r.recorder
	logger := r.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordMatchTimeout)
		defer cancel()
		if err := recorder.RecordMatch(ctx, result); err != nil {
			logger.Error().Err(err).Str("match", result.ID).Msg("failed to archive match")
		}
	}()
}

func (r *room) queueSend(to Player, msg domain.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to marshal server message")
		return
	}
	r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: to, data: data})
}

func (r *room) queueBroadcast(msg domain.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to marshal server message")
		return
	}
	for _, p := range r.players {
		r.dataSendTasks = append(r.dataSendTasks, dataSendTask{to: p, data: data})
	}
}

// flushSendTasks delivers queued messages. A failed send to one member never
// blocks delivery to the rest.
func (r *room) flushSendTasks() {
	for _, task := range r.dataSendTasks {
		if err := task.to.Send(task.data); err != nil {
			r.logger.Debug().Err(err).Str("player", task.to.Username()).Msg("dropped outbound message")
		}
	}
	r.dataSendTasks = r.dataSendTasks[:0]
}
