package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shiritori/domain"
)

const (
	playerOutboxSize = 256
	pingPeriod       = time.Second * 30
)

var errOutboxFull = errors.New("player outbox full")

type wsPlayer struct {
	name    string
	session NetworkSession
	limiter *rate.Limiter
	logger  zerolog.Logger

	outbox chan []byte
	done   chan struct{}

	roomMu    sync.RWMutex
	room      Room
	closeOnce sync.Once
}

func NewPlayer(name string, session NetworkSession, logger zerolog.Logger) *wsPlayer {
	return &wsPlayer{
		name:    name,
		session: session,
		limiter: rate.NewLimiter(2, 5),
		logger:  logger,
		outbox:  make(chan []byte, playerOutboxSize),
		done:    make(chan struct{}),
	}
}

func (p *wsPlayer) Username() string { return p.name }

func (p *wsPlayer) SetRoom(r Room) {
	p.roomMu.Lock()
	p.room = r
	p.roomMu.Unlock()
}

func (p *wsPlayer) currentRoom() Room {
	p.roomMu.RLock()
	defer p.roomMu.RUnlock()
	return p.room
}

// Send queues data for the write pump. It never blocks the room actor: a
// full outbox counts as a failed delivery.
func (p *wsPlayer) Send(data []byte) error {
	select {
	case p.outbox <- data:
		return nil
	case <-p.done:
		return errors.New("player released")
	default:
		return errOutboxFull
	}
}

func (p *wsPlayer) CancelAndRelease() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.session.Close("")
	})
}

// ReadPump decodes inbound messages and forwards them to the room. A
// malformed payload gets a generic error back and affects nobody else.
func (p *wsPlayer) ReadPump(ctx context.Context) {
	defer func() {
		if room := p.currentRoom(); room != nil {
			room.RemoveMe(ctx, p)
		} else {
			p.CancelAndRelease()
		}
	}()

	for {
		data, err := p.session.Read()
		if err != nil {
			return
		}
		if !p.limiter.Allow() {
			p.logger.Debug().Str("player", p.name).Msg("dropping message, rate limit exceeded")
			continue
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			p.sendMessage(domain.MakeErrorMessage(domain.ErrInvalidMessage.Error()))
			continue
		}

		room := p.currentRoom()
		if room == nil {
			continue
		}
		room.Send(ctx, clientEnvelope{from: p, msg: msg})
	}
}

func (p *wsPlayer) WritePump() {
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case data := <-p.outbox:
			if err := p.session.Write(data); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := p.session.Ping(); err != nil {
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *wsPlayer) sendMessage(msg domain.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal server message")
		return
	}
	if err := p.Send(data); err != nil {
		p.logger.Debug().Err(err).Str("player", p.name).Msg("failed to queue message")
	}
}
