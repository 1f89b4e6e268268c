package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"shiritori/domain"
)

var roomCodePattern = regexp.MustCompile(`^[0-9A-Za-z]{1,16}$`)

const joinTimeout = time.Second * 10

type GameHandler struct {
	lobby    Lobby
	checker  RuleChecker
	archive  MatchArchive
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewGameHandler(lobby Lobby, checker RuleChecker, archive MatchArchive, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		lobby:   lobby,
		checker: checker,
		archive: archive,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WebsocketHandler upgrades the connection and runs the join handshake: the
// first message must be a join carrying a well-formed room code and a player
// name. Everything after that flows through the player's pumps.
func (h *GameHandler) WebsocketHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}
	session := NewGorillaWebSocketWrapper(conn)

	join, err := readJoinMessage(session)
	if err != nil {
		rejectSession(session, err.Error())
		return
	}

	player := NewPlayer(join.PlayerName, session, h.logger)
	joinCtx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	defer cancel()

	if err := h.lobby.Join(joinCtx, join.RoomCode, player); err != nil {
		rejectSession(session, err.Error())
		return
	}

	go player.WritePump()
	go player.ReadPump(context.Background())
}

func readJoinMessage(session NetworkSession) (domain.ClientMessage, error) {
	data, err := session.Read()
	if err != nil {
		return domain.ClientMessage{}, domain.ErrJoinMessageExpected
	}

	var msg domain.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return domain.ClientMessage{}, domain.ErrInvalidMessage
	}
	if msg.Type != domain.TypeJoin {
		return domain.ClientMessage{}, domain.ErrJoinMessageExpected
	}
	if !roomCodePattern.MatchString(msg.RoomCode) {
		return domain.ClientMessage{}, domain.ErrInvalidRoomCode
	}
	msg.PlayerName = strings.TrimSpace(msg.PlayerName)
	if msg.PlayerName == "" {
		return domain.ClientMessage{}, domain.ErrPlayerNameRequired
	}
	return msg, nil
}

func rejectSession(session NetworkSession, message string) {
	if data, err := json.Marshal(domain.MakeErrorMessage(message)); err == nil {
		session.Write(data)
	}
	session.Close(message)
}

type checkRuleRequest struct {
	Word   string `json:"word" binding:"required"`
	RuleID string `json:"ruleId" binding:"required"`
}

// CheckHiddenRuleHandler answers {word, ruleId} with {result: bool}. Unknown
// rule ids are a client error and never reach the oracle.
func (h *GameHandler) CheckHiddenRuleHandler(ctx *gin.Context) {
	var req checkRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}

	result, err := h.checker.CheckRule(ctx.Request.Context(), req.RuleID, req.Word)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRule) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrUnknownRule.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"result": result})
}

// RecentMatchesHandler lists archived games, newest first.
func (h *GameHandler) RecentMatchesHandler(ctx *gin.Context) {
	if h.archive == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrArchiveDisabled.Error()})
		return
	}

	limit := 20
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid-limit"})
			return
		}
		limit = parsed
	}

	matches, err := h.archive.RecentMatches(ctx.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent matches")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"matches": matches})
}
