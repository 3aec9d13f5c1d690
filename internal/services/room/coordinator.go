package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battleship-go/internal/dependencies/clock"
	"github.com/mcoot/battleship-go/internal/metrics"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/storage"
)

// Config holds coordinator settings
type Config struct {
	// PasscodeCost is the bcrypt cost for private room passcodes
	PasscodeCost int
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		PasscodeCost: bcrypt.DefaultCost,
	}
}

// JoinGameArgs are the arguments of a JOIN_GAME command
type JoinGameArgs struct {
	RoomID   model.RoomID
	Passcode string
	Player   *model.Player
	Grid     *model.Grid
}

// StartGameArgs are the arguments of a START_GAME command
type StartGameArgs struct {
	RoomID model.RoomID
}

// ClickSquareArgs are the arguments of a CLICK_SQUARE command
type ClickSquareArgs struct {
	RoomID          model.RoomID
	SendingPlayerID model.PlayerID
	GuessedGridID   model.GridID
	Coordinate      model.Coordinate
}

// connState tracks which room a connection belongs to
type connState struct {
	conn   Conn
	roomID model.RoomID
}

// Coordinator owns every live room and routes client commands to them.
// Lock order is Room.mu before Coordinator.mu; mu is never held while taking a room lock.
type Coordinator struct {
	mu    sync.Mutex
	rooms map[model.RoomID]*Room
	conns map[ConnID]*connState

	storage storage.Storage
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     Config
}

// NewCoordinator creates a new room Coordinator
func NewCoordinator(
	storage storage.Storage,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Coordinator {
	return &Coordinator{
		rooms:   make(map[model.RoomID]*Room),
		conns:   make(map[ConnID]*connState),
		storage: storage,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Connect registers a live connection that has not joined a room yet
func (c *Coordinator) Connect(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.conns[conn.ID()]; exists {
		return
	}
	c.conns[conn.ID()] = &connState{conn: conn}
	c.metrics.ActiveConnections.Inc()
	c.logger.Debug("connection opened", slog.String("conn_id", string(conn.ID())))
}

// JoinGame seats the connection's player in a room, creating the room on first join.
// The connection must have been registered with Connect.
func (c *Coordinator) JoinGame(ctx context.Context, conn Conn, args JoinGameArgs) error {
	err := c.joinGame(ctx, conn, args)
	c.finish(conn, model.EventJoinGame, args.RoomID, err)
	return err
}

func (c *Coordinator) joinGame(ctx context.Context, conn Conn, args JoinGameArgs) error {
	if err := validateRoomID(args.RoomID); err != nil {
		return err
	}
	if args.Player == nil || args.Grid == nil {
		return fmt.Errorf("%w: player and grid are required", model.ErrInvalidFleet)
	}

	if err := c.reserve(conn.ID(), args.RoomID); err != nil {
		return err
	}

	for {
		room := c.getOrCreateRoom(args.RoomID)
		room.mu.Lock()
		if room.closed {
			// Torn down between lookup and lock
			room.mu.Unlock()
			continue
		}

		err := c.seat(ctx, room, conn, args)
		if err != nil && len(room.conns) == 0 {
			c.teardown(ctx, room)
		}
		room.mu.Unlock()

		if err != nil {
			c.release(conn.ID(), args.RoomID)
		}
		return err
	}
}

// seat runs the join under the room lock
func (c *Coordinator) seat(ctx context.Context, room *Room, conn Conn, args JoinGameArgs) error {
	if _, seated := room.players[conn.ID()]; seated {
		return fmt.Errorf("%w: connection already holds a seat", model.ErrPlayerAlreadyJoined)
	}
	if room.game.PlayerCount() >= model.MaxPlayers {
		return model.ErrRoomFull
	}
	if room.game.Started() {
		return model.ErrGameAlreadyStarted
	}

	newRoom := len(room.conns) == 0
	if !newRoom && room.isPrivate() {
		if err := bcrypt.CompareHashAndPassword(room.passcodeHash, []byte(args.Passcode)); err != nil {
			return model.ErrInvalidPasscode
		}
	}

	if err := room.game.AddPlayer(args.Player, args.Grid); err != nil {
		return err
	}

	if newRoom && args.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(args.Passcode), c.cfg.PasscodeCost)
		if err != nil {
			_ = room.game.RemovePlayer(args.Player.ID)
			return err
		}
		room.passcodeHash = hash
	}

	room.conns[conn.ID()] = conn
	room.players[conn.ID()] = args.Player.ID

	c.logger.Debug("player joined",
		slog.String("room_id", string(room.id)),
		slog.String("player_id", string(args.Player.ID)),
		slog.String("grid_id", string(args.Grid.ID)),
		slog.String("conn_id", string(conn.ID())))

	c.sendTo(conn, model.EventJoinAck, model.JoinAckPayload{
		RoomID:   room.id,
		PlayerID: args.Player.ID,
		GridID:   args.Grid.ID,
	})
	if room.game.PlayerCount() == model.MaxPlayers {
		c.broadcastState(room, model.EventGameReady, nil)
	}
	c.save(ctx, room)
	return nil
}

// StartGame moves a full room into the guessing phase
func (c *Coordinator) StartGame(ctx context.Context, conn Conn, args StartGameArgs) error {
	err := c.withMember(conn, args.RoomID, func(room *Room) error {
		if err := room.game.StartGame(); err != nil {
			return err
		}

		c.logger.Debug("game started", slog.String("room_id", string(room.id)))
		c.broadcastState(room, model.EventGameStarted, nil)
		c.save(ctx, room)
		return nil
	})
	c.finish(conn, model.EventStartGame, args.RoomID, err)
	return err
}

// ClickSquare fires a shot for the connection's player and passes the turn
func (c *Coordinator) ClickSquare(ctx context.Context, conn Conn, args ClickSquareArgs) (model.ShotResult, error) {
	var result model.ShotResult
	err := c.withMember(conn, args.RoomID, func(room *Room) error {
		if room.players[conn.ID()] != args.SendingPlayerID {
			return model.ErrPlayerMismatch
		}

		shot, err := room.game.GridSquareClicked(args.SendingPlayerID, args.GuessedGridID, args.Coordinate)
		if err != nil {
			return err
		}
		result = shot
		room.shots++
		room.game.EndCurrentTurn()
		winner, won := room.game.CheckForWinner()

		c.metrics.ShotResolved(shot.Hit, shot.Sunk)
		c.logger.Debug("shot resolved",
			slog.String("room_id", string(room.id)),
			slog.String("player_id", string(args.SendingPlayerID)),
			slog.String("grid_id", string(args.GuessedGridID)),
			slog.String("coordinate", args.Coordinate.Key()),
			slog.Bool("hit", shot.Hit),
			slog.Bool("sunk", shot.Sunk))

		c.broadcastState(room, model.EventUpdateGame, &model.ShotPayload{
			PlayerID:   args.SendingPlayerID,
			GridID:     args.GuessedGridID,
			Coordinate: args.Coordinate,
			Hit:        shot.Hit,
			Sunk:       shot.Sunk,
			ShipID:     shot.ShipID,
		})
		if won {
			c.finishGame(ctx, room, winner)
		}
		c.save(ctx, room)
		return nil
	})
	c.finish(conn, model.EventClickSquare, args.RoomID, err)
	return result, err
}

// finishGame announces the winner and records the result. Callers hold room.mu.
func (c *Coordinator) finishGame(ctx context.Context, room *Room, winner model.PlayerID) {
	winnerPlayer := room.game.Player(winner)
	result := &model.MatchResult{
		RoomID:     room.id,
		Winner:     winner,
		Shots:      room.shots,
		FinishedAt: c.clock.Now(),
	}
	if winnerPlayer != nil {
		result.WinnerName = winnerPlayer.Name
	}
	for _, p := range room.game.Players() {
		if p.ID != winner {
			result.Loser = p.ID
			result.LoserName = p.Name
		}
	}

	c.broadcast(room, model.EventGameOver, func(model.PlayerID) any {
		return model.GameOverPayload{
			RoomID:     room.id,
			Winner:     winner,
			WinnerName: result.WinnerName,
		}
	})
	c.metrics.GamesFinished.Inc()
	c.logger.Debug("game over",
		slog.String("room_id", string(room.id)),
		slog.String("winner", string(winner)),
		slog.Int("shots", room.shots))

	if err := c.storage.SaveMatchResult(ctx, result); err != nil {
		c.logger.Error("failed to save match result",
			slog.String("room_id", string(room.id)),
			slog.String("error", err.Error()))
	}
}

// Disconnect removes a connection. The last connection out tears the room down;
// otherwise the remaining connections are told a player left.
func (c *Coordinator) Disconnect(ctx context.Context, conn Conn) {
	c.mu.Lock()
	state, ok := c.conns[conn.ID()]
	if ok {
		delete(c.conns, conn.ID())
		c.metrics.ActiveConnections.Dec()
	}
	var room *Room
	if ok && state.roomID != "" {
		room = c.rooms[state.roomID]
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	c.logger.Debug("connection closed", slog.String("conn_id", string(conn.ID())))
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}
	if _, member := room.conns[conn.ID()]; !member {
		return
	}

	playerID := room.players[conn.ID()]
	delete(room.conns, conn.ID())
	delete(room.players, conn.ID())

	if len(room.conns) == 0 {
		c.teardown(ctx, room)
		return
	}

	if !room.game.Started() {
		if err := room.game.RemovePlayer(playerID); err != nil {
			c.logger.Warn("failed to free seat",
				slog.String("room_id", string(room.id)),
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()))
		}
	}

	c.logger.Debug("player left",
		slog.String("room_id", string(room.id)),
		slog.String("player_id", string(playerID)))
	c.broadcast(room, model.EventPlayerLeave, func(viewer model.PlayerID) any {
		return model.PlayerLeavePayload{
			RoomID:   room.id,
			PlayerID: playerID,
			Game:     room.game.SnapshotFor(viewer),
		}
	})
	c.save(ctx, room)
}

// Close disconnects every connection, tearing down all rooms
func (c *Coordinator) Close(ctx context.Context) {
	c.mu.Lock()
	conns := make([]Conn, 0, len(c.conns))
	for _, state := range c.conns {
		conns = append(conns, state.conn)
	}
	c.mu.Unlock()

	for _, conn := range conns {
		c.Disconnect(ctx, conn)
	}
}

// Reject sends a COMMAND_REJECTED to the connection without touching any room.
// Used by transports for commands that could not be decoded.
func (c *Coordinator) Reject(conn Conn, command model.EventType, err error) {
	c.metrics.CommandHandled(string(command), err)
	c.logger.Warn("command rejected",
		slog.String("conn_id", string(conn.ID())),
		slog.String("command", string(command)),
		slog.String("error", err.Error()))
	c.sendTo(conn, model.EventCommandRejected, model.CommandRejectedPayload{
		Command: command,
		Code:    model.ErrorCode(err),
		Reason:  err.Error(),
	})
}

// RoomCount returns the number of live rooms
func (c *Coordinator) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}

// withMember runs fn under the room lock after checking the connection belongs to the room
func (c *Coordinator) withMember(conn Conn, roomID model.RoomID, fn func(room *Room) error) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}

	c.mu.Lock()
	room, ok := c.rooms[roomID]
	c.mu.Unlock()
	if !ok {
		return model.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return model.ErrRoomNotFound
	}
	if _, member := room.conns[conn.ID()]; !member {
		return model.ErrNotInRoom
	}
	return fn(room)
}

// finish records the outcome of a command and rejects it to the sender on failure
func (c *Coordinator) finish(conn Conn, command model.EventType, roomID model.RoomID, err error) {
	if err == nil {
		c.metrics.CommandHandled(string(command), nil)
		return
	}

	if errors.Is(err, model.ErrInvalidDamage) {
		c.logger.Error("inconsistent game state",
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()))
	}
	c.Reject(conn, command, err)
}

// reserve binds a connection to a room before joining so it cannot join two rooms at once
func (c *Coordinator) reserve(id ConnID, roomID model.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.conns[id]
	if !ok {
		return fmt.Errorf("%w: connection is closed", model.ErrNotInRoom)
	}
	if state.roomID != "" && state.roomID != roomID {
		return fmt.Errorf("%w: %s", model.ErrAlreadyInRoom, state.roomID)
	}
	state.roomID = roomID
	return nil
}

// release undoes a reservation if the connection did not end up seated
func (c *Coordinator) release(id ConnID, roomID model.RoomID) {
	c.mu.Lock()
	state, ok := c.conns[id]
	var room *Room
	if ok && state.roomID == roomID {
		room = c.rooms[roomID]
	}
	c.mu.Unlock()

	if room != nil {
		room.mu.Lock()
		_, seated := room.conns[id]
		room.mu.Unlock()
		if seated {
			return
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.conns[id]; ok && state.roomID == roomID {
		state.roomID = ""
	}
}

func (c *Coordinator) getOrCreateRoom(id model.RoomID) *Room {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[id]
	if !ok {
		room = newRoom(id, c.clock.Now())
		c.rooms[id] = room
		c.metrics.ActiveRooms.Inc()
		c.logger.Debug("room created", slog.String("room_id", string(id)))
	}
	return room
}

// teardown discards a room and its stored record. Callers hold room.mu.
func (c *Coordinator) teardown(ctx context.Context, room *Room) {
	room.closed = true

	c.mu.Lock()
	if c.rooms[room.id] == room {
		delete(c.rooms, room.id)
		c.metrics.ActiveRooms.Dec()
	}
	c.mu.Unlock()

	if err := c.storage.DeleteRoom(ctx, room.id); err != nil {
		c.logger.Error("failed to delete room record",
			slog.String("room_id", string(room.id)),
			slog.String("error", err.Error()))
	}
	c.logger.Debug("room closed", slog.String("room_id", string(room.id)))
}

// save writes the room's read model. Failures are logged, never surfaced to clients.
func (c *Coordinator) save(ctx context.Context, room *Room) {
	if err := c.storage.SaveRoom(ctx, room.record(c.clock.Now())); err != nil {
		c.logger.Error("failed to save room record",
			slog.String("room_id", string(room.id)),
			slog.String("error", err.Error()))
	}
}

// broadcastState sends the game snapshot, redacted for each receiver. Callers hold room.mu.
func (c *Coordinator) broadcastState(room *Room, event model.EventType, shot *model.ShotPayload) {
	c.broadcast(room, event, func(viewer model.PlayerID) any {
		return model.GameStatePayload{
			RoomID: room.id,
			Game:   room.game.SnapshotFor(viewer),
			Shot:   shot,
		}
	})
}

// broadcast fans a message out to every connection in the room. Callers hold room.mu.
func (c *Coordinator) broadcast(room *Room, event model.EventType, payloadFor func(viewer model.PlayerID) any) {
	for id, conn := range room.conns {
		c.sendTo(conn, event, payloadFor(room.players[id]))
	}
	c.logger.Debug("broadcast",
		slog.String("room_id", string(room.id)),
		slog.String("event", string(event)),
		slog.Int("receivers", len(room.conns)))
}

func (c *Coordinator) sendTo(conn Conn, event model.EventType, payload any) {
	msg, err := model.NewMessage(event, payload)
	if err != nil {
		c.logger.Error("failed to encode message",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}
	conn.Send(msg)
}

func validateRoomID(id model.RoomID) error {
	if id == "" || len(id) > model.MaxRoomIDLength {
		return model.ErrInvalidRoomID
	}
	return nil
}

// Interface for dependency injection
type CoordinatorInterface interface {
	Connect(conn Conn)
	JoinGame(ctx context.Context, conn Conn, args JoinGameArgs) error
	StartGame(ctx context.Context, conn Conn, args StartGameArgs) error
	ClickSquare(ctx context.Context, conn Conn, args ClickSquareArgs) (model.ShotResult, error)
	Disconnect(ctx context.Context, conn Conn)
	Reject(conn Conn, command model.EventType, err error)
	Close(ctx context.Context)

	ListRooms(ctx context.Context) ([]*model.RoomRecord, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.RoomRecord, error)
	RenderGrid(ctx context.Context, id model.RoomID, gridID model.GridID) (string, error)
	MatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error)
}

var _ CoordinatorInterface = (*Coordinator)(nil)
