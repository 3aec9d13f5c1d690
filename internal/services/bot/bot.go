package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// Bot is a computer opponent. It is seated through the coordinator like any other
// connection and fires whenever the game snapshot it was last sent says it is its turn.
type Bot struct {
	id          room.ConnID
	roomID      model.RoomID
	playerID    model.PlayerID
	strategy    Strategy
	coordinator room.CoordinatorInterface
	thinkTime   time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	game    *model.GameSnapshot
	leaving bool

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newBot(
	id room.ConnID,
	roomID model.RoomID,
	playerID model.PlayerID,
	strategy Strategy,
	coordinator room.CoordinatorInterface,
	thinkTime time.Duration,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		id:          id,
		roomID:      roomID,
		playerID:    playerID,
		strategy:    strategy,
		coordinator: coordinator,
		thinkTime:   thinkTime,
		logger: logger.With(
			slog.String("conn_id", string(id)),
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
		),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// ID implements room.Conn
func (b *Bot) ID() room.ConnID {
	return b.id
}

// PlayerID returns the seat the bot plays
func (b *Bot) PlayerID() model.PlayerID {
	return b.playerID
}

// Send implements room.Conn. It is called with the room locked, so it only records
// the message and wakes the bot's goroutine.
func (b *Bot) Send(msg model.Message) {
	b.mu.Lock()
	switch msg.Type {
	case model.EventGameReady, model.EventGameStarted, model.EventUpdateGame:
		var p model.GameStatePayload
		if err := msg.DecodePayload(&p); err == nil {
			b.game = &p.Game
		}
	case model.EventPlayerLeave:
		var p model.PlayerLeavePayload
		if err := msg.DecodePayload(&p); err == nil {
			b.game = &p.Game
			// Spectators leaving carry no player id
			if p.PlayerID != "" && p.PlayerID != b.playerID {
				b.leaving = true
			}
		}
	case model.EventGameOver:
		b.leaving = true
	case model.EventCommandRejected:
		var p model.CommandRejectedPayload
		if err := msg.DecodePayload(&p); err == nil {
			b.logger.Debug("bot command rejected",
				slog.String("command", string(p.Command)),
				slog.String("code", p.Code))
		}
	}
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// run reacts to game updates until the bot leaves the room or ctx ends
func (b *Bot) run(ctx context.Context) {
	defer b.leave(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case <-b.wake:
		}

		if !b.step(ctx) {
			return
		}
	}
}

// step fires one shot if it is the bot's turn. It returns false once the bot should leave.
func (b *Bot) step(ctx context.Context) bool {
	b.mu.Lock()
	game, leaving := b.game, b.leaving
	b.mu.Unlock()

	if leaving {
		return false
	}
	if game == nil || game.Phase != model.GamePhaseGuessing || !b.isTurn(game) {
		return true
	}

	opponent, gridID, ok := b.opponent(game)
	if !ok {
		return true
	}
	target, ok := b.strategy.ChooseTarget(game.Grids[gridID], game.Players[opponent])
	if !ok {
		return true
	}

	if b.thinkTime > 0 {
		timer := time.NewTimer(b.thinkTime)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false
		case <-b.done:
			return false
		}
	}

	_, err := b.coordinator.ClickSquare(ctx, b, room.ClickSquareArgs{
		RoomID:          b.roomID,
		SendingPlayerID: b.playerID,
		GuessedGridID:   gridID,
		Coordinate:      target,
	})
	if err != nil {
		b.logger.Warn("bot shot failed",
			slog.String("coordinate", target.String()),
			slog.String("error", err.Error()))
	}
	return true
}

func (b *Bot) isTurn(game *model.GameSnapshot) bool {
	turn := game.CurrentPlayerTurn
	return turn >= 0 && turn < len(game.PlayerOrder) && game.PlayerOrder[turn] == b.playerID
}

func (b *Bot) opponent(game *model.GameSnapshot) (model.PlayerID, model.GridID, bool) {
	for _, id := range game.PlayerOrder {
		if id != b.playerID {
			gridID, ok := game.PlayerIDToGridID[id]
			return id, gridID, ok
		}
	}
	return "", "", false
}

// stop ends the run loop without leaving the room
func (b *Bot) stop() {
	b.stopOnce.Do(func() { close(b.done) })
}

func (b *Bot) leave(ctx context.Context) {
	b.stop()
	b.coordinator.Disconnect(ctx, b)
	b.logger.Debug("bot left room")
}
