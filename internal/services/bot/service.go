package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/battleship-go/internal/dependencies/ids"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/fleet"
	"github.com/mcoot/battleship-go/internal/services/room"
)

// ErrServiceClosed is returned when adding a bot after Close
var ErrServiceClosed = errors.New("bot service closed")

// Config holds bot settings
type Config struct {
	// ThinkTime is how long a bot waits before firing
	ThinkTime time.Duration
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		ThinkTime: 750 * time.Millisecond,
	}
}

// AddBotArgs are the arguments for seating a bot
type AddBotArgs struct {
	RoomID   model.RoomID
	Passcode string
	Strategy string
}

// Service seats computer opponents in existing rooms
type Service struct {
	coordinator room.CoordinatorInterface
	fleets      fleet.ServiceInterface
	ids         ids.Generator
	strategies  map[string]Strategy
	cfg         Config
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	bots   map[room.ConnID]*Bot
	closed bool
}

// NewService creates a new bot Service
func NewService(
	coordinator room.CoordinatorInterface,
	fleets fleet.ServiceInterface,
	idGen ids.Generator,
	strategies map[string]Strategy,
	cfg Config,
	logger *slog.Logger,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		coordinator: coordinator,
		fleets:      fleets,
		ids:         idGen,
		strategies:  strategies,
		cfg:         cfg,
		logger:      logger.With(slog.String("component", "bot-service")),
		ctx:         ctx,
		cancel:      cancel,
		bots:        make(map[room.ConnID]*Bot),
	}
}

// AddBot generates a random fleet and seats a bot with it in an existing room
func (s *Service) AddBot(ctx context.Context, args AddBotArgs) (*model.Player, error) {
	name := args.Strategy
	if name == "" {
		name = DefaultStrategy
	}
	strategy, ok := s.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownStrategy, name)
	}

	// Bots join rooms, they never create them
	if _, err := s.coordinator.GetRoom(ctx, args.RoomID); err != nil {
		return nil, err
	}

	player, grid, err := s.fleets.RandomFleet(fmt.Sprintf("Bot (%s)", name))
	if err != nil {
		return nil, err
	}

	b := newBot(room.ConnID("bot-"+s.ids.NewID()), args.RoomID, player.ID, strategy, s.coordinator, s.cfg.ThinkTime, s.logger)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}
	s.bots[b.ID()] = b
	s.wg.Add(1)
	s.mu.Unlock()

	s.coordinator.Connect(b)
	err = s.coordinator.JoinGame(ctx, b, room.JoinGameArgs{
		RoomID:   args.RoomID,
		Passcode: args.Passcode,
		Player:   player,
		Grid:     grid,
	})
	if err != nil {
		b.stop()
		s.coordinator.Disconnect(ctx, b)
		s.remove(b)
		return nil, err
	}

	go func() {
		defer s.remove(b)
		b.run(s.ctx)
	}()

	s.logger.Info("bot added to room",
		slog.String("room_id", string(args.RoomID)),
		slog.String("player_id", string(player.ID)),
		slog.String("strategy", name),
	)
	return player, nil
}

// BotCount returns the number of seated bots
func (s *Service) BotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bots)
}

// Close makes every bot leave its room and waits for them to finish
func (s *Service) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for bots to leave")
	}
}

func (s *Service) remove(b *Bot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bots[b.ID()]; ok {
		delete(s.bots, b.ID())
		s.wg.Done()
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	AddBot(ctx context.Context, args AddBotArgs) (*model.Player, error)
	BotCount() int
	Close(ctx context.Context)
}

var _ ServiceInterface = (*Service)(nil)
var _ room.Conn = (*Bot)(nil)
