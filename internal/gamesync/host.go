package gamesync

import (
	"context"
	"log/slog"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

// HostSession runs the authoritative side of a networked game. It owns
// the game session: every local mutation and every accepted guest move
// results in a full snapshot broadcast over the bus. Guest moves are
// validated by the engine; rejected moves are logged and dropped
// without a state change (the next broadcast corrects the guest's
// optimistic view).
type HostSession struct {
	session *game.Session
	bus     transport.Bus
	logger  *slog.Logger

	roomID string
	userID string

	onPresence func(Presence)
}

// HostConfig assembles a HostSession
type HostConfig struct {
	Session *game.Session
	Bus     transport.Bus
	Logger  *slog.Logger
	RoomID  string
	UserID  string

	// OnPresence is called when the relay reports a join or leave
	OnPresence func(Presence)
}

// NewHost wires a host session to the bus. The session's snapshots
// start broadcasting immediately.
func NewHost(cfg HostConfig) *HostSession {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &HostSession{
		session:    cfg.Session,
		bus:        cfg.Bus,
		logger:     logger,
		roomID:     cfg.RoomID,
		userID:     cfg.UserID,
		onPresence: cfg.OnPresence,
	}
	cfg.Session.Subscribe(h.broadcast)
	return h
}

// Run processes inbound envelopes until the context is cancelled or the
// bus closes
func (h *HostSession) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-h.bus.Receive():
			if !ok {
				return transport.ErrBusClosed
			}
			h.handleFrame(frame)
		}
	}
}

// SendLaunch announces the game start. Fire and forget: the guest loads
// the puzzle during the countdown, and the first state broadcast after
// Start corrects any gap.
func (h *HostSession) SendLaunch(ctx context.Context, launch *Launch) error {
	return h.publish(ctx, &Envelope{
		Type:     MessageLaunch,
		RoomID:   h.roomID,
		SenderID: h.userID,
		Role:     model.RoleHost,
		Launch:   launch,
	})
}

// Session exposes the underlying game session for local play
func (h *HostSession) Session() *game.Session {
	return h.session
}

func (h *HostSession) handleFrame(frame []byte) {
	env, err := Decode(frame)
	if err != nil {
		h.logger.Warn("dropping malformed frame", "error", err)
		return
	}

	switch env.Type {
	case MessageMove:
		// Guest moves always act as player two
		if err := h.session.ApplyMove(model.RoleGuest.Index(), env.Move); err != nil {
			h.logger.Warn("guest move rejected",
				"move_type", env.Move.Type, "error", err)
		}
	case MessagePresence:
		if h.onPresence != nil {
			h.onPresence(*env.Presence)
		}
	case MessageSync, MessageLaunch:
		// The host is the source of these; ignore echoes
	}
}

// broadcast ships a snapshot to the guest after every mutation
func (h *HostSession) broadcast(snap *model.SyncState) {
	env := &Envelope{
		Type:     MessageSync,
		RoomID:   h.roomID,
		SenderID: h.userID,
		Role:     model.RoleHost,
		Sync:     snap,
	}
	if err := h.publish(context.Background(), env); err != nil {
		h.logger.Warn("snapshot broadcast failed", "error", err)
	}
}

func (h *HostSession) publish(ctx context.Context, env *Envelope) error {
	data, err := Encode(env)
	if err != nil {
		return err
	}
	return h.bus.Send(ctx, data)
}
