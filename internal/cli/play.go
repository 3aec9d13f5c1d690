package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/battleship-go/internal/dependencies/random"
	"github.com/mcoot/battleship-go/internal/model"
)

var errQuit = errors.New("quit")

// roomCodeLength is the length of generated room codes
const roomCodeLength = 6

// newRoomCode picks a short room code for players who do not name a room
func newRoomCode(rnd random.Random) model.RoomID {
	return model.RoomID(rnd.String(roomCodeLength, random.RoomCodeAlphabet))
}

func newPlayCmd() *cobra.Command {
	var name, passcode string

	cmd := &cobra.Command{
		Use:   "play [room]",
		Short: "Join a room and play interactively",
		Long: `Generate a random fleet, join the room over the websocket endpoint and
play from the terminal. Without a room a new room code is generated; share it
with your opponent so they can join.

Commands:
  start       Start the game once both seats are filled
  fire <sq>   Fire at a square on the opponent's grid, e.g. "fire B7"
  board       Show both grids
  quit        Leave the room`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var roomID model.RoomID
			if len(args) == 1 {
				roomID = model.RoomID(args[0])
			} else {
				roomID = newRoomCode(random.New())
				NewOutput("text", cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Created room %s", roomID))
			}

			return play(ctx, roomID, name, passcode, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&passcode, "passcode", "", "Room passcode")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func play(ctx context.Context, roomID model.RoomID, name, passcode string, in io.Reader, w io.Writer) error {
	fleet, err := randomFleet(name)
	if err != nil {
		return fmt.Errorf("failed to generate fleet: %w", err)
	}

	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	s := newSession(roomID, fleet, NewOutput("text", w))

	join, err := model.NewMessage(model.EventJoinGame, model.JoinGamePayload{
		RoomID:   roomID,
		Passcode: passcode,
		Player:   fleet.Player,
		Grid:     fleet.Grid,
	})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	readErr := make(chan error, 1)
	go func() {
		for {
			var msg model.Message
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			s.handle(msg)
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return leave(conn)
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.out.PrintMessage("Server closed the connection")
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok {
				return leave(conn)
			}
			msg, err := s.command(line)
			if errors.Is(err, errQuit) {
				return leave(conn)
			}
			if err != nil {
				s.out.PrintMessage(err.Error())
				continue
			}
			if msg == nil {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

func leave(conn *websocket.Conn) error {
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// session tracks what this terminal knows about the game
type session struct {
	mu       sync.Mutex
	roomID   model.RoomID
	playerID model.PlayerID
	gridID   model.GridID
	own      model.GridSnapshot
	game     *model.GameSnapshot
	out      *Output
}

func newSession(roomID model.RoomID, fleet Fleet, out *Output) *session {
	return &session{
		roomID:   roomID,
		playerID: fleet.Player.ID,
		gridID:   fleet.Grid.ID,
		own:      fleet.Grid,
		out:      out,
	}
}

// handle applies one server message and prints it
func (s *session) handle(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case model.EventJoinAck:
		var p model.JoinAckPayload
		if err := msg.DecodePayload(&p); err != nil {
			s.out.PrintMessage("bad JOIN_ACK: " + err.Error())
			return
		}
		s.playerID = p.PlayerID
		s.gridID = p.GridID
		s.out.PrintMessage(fmt.Sprintf("Joined room %s as %s", p.RoomID, p.PlayerID))
	case model.EventGameReady, model.EventGameStarted, model.EventUpdateGame:
		var p model.GameStatePayload
		if err := msg.DecodePayload(&p); err != nil {
			s.out.PrintMessage(fmt.Sprintf("bad %s: %s", msg.Type, err))
			return
		}
		s.game = &p.Game
		if own, ok := p.Game.Grids[s.gridID]; ok {
			s.own = own
		}
		switch msg.Type {
		case model.EventGameReady:
			s.out.PrintMessage("Both seats filled. Type \"start\" to begin.")
		case model.EventGameStarted:
			s.out.PrintMessage("Game started")
			s.printTurn()
		default:
			if p.Shot != nil {
				s.printShot(*p.Shot)
			}
			if p.Game.Phase == model.GamePhaseGuessing {
				s.printTurn()
			}
		}
	case model.EventPlayerLeave:
		var p model.PlayerLeavePayload
		if err := msg.DecodePayload(&p); err != nil {
			s.out.PrintMessage("bad PLAYER_LEAVE: " + err.Error())
			return
		}
		s.game = &p.Game
		who := string(p.PlayerID)
		if who == "" {
			who = "A spectator"
		}
		s.out.PrintMessage(fmt.Sprintf("%s left the room", who))
	case model.EventGameOver:
		var p model.GameOverPayload
		if err := msg.DecodePayload(&p); err != nil {
			s.out.PrintMessage("bad GAME_OVER: " + err.Error())
			return
		}
		if p.Winner == s.playerID {
			s.out.PrintMessage("You win!")
		} else {
			s.out.PrintMessage(fmt.Sprintf("%s wins", p.WinnerName))
		}
	case model.EventCommandRejected:
		var p model.CommandRejectedPayload
		if err := msg.DecodePayload(&p); err != nil {
			s.out.PrintMessage("bad COMMAND_REJECTED: " + err.Error())
			return
		}
		s.out.PrintMessage(fmt.Sprintf("%s rejected (%s): %s", p.Command, p.Code, p.Reason))
	default:
		s.out.PrintMessage(fmt.Sprintf("unhandled message %s", msg.Type))
	}
}

// command turns one line of input into a message for the server.
// A nil message with a nil error means nothing needs sending.
func (s *session) command(line string) (*model.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToLower(fields[0]) {
	case "start":
		msg, err := model.NewMessage(model.EventStartGame, model.StartGamePayload{RoomID: s.roomID})
		return &msg, err
	case "fire":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: fire <square>")
		}
		coord, err := model.ParseCoordinate(fields[1])
		if err != nil {
			return nil, err
		}
		target, ok := s.opponentGrid()
		if !ok {
			return nil, fmt.Errorf("no opponent yet")
		}
		msg, err := model.NewMessage(model.EventClickSquare, model.ClickSquarePayload{
			RoomID:          s.roomID,
			SendingPlayerID: s.playerID,
			GuessedGridID:   target,
			Coordinate:      coord,
		})
		return &msg, err
	case "board":
		s.printBoards()
		return nil, nil
	case "quit", "exit":
		return nil, errQuit
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

func (s *session) opponentGrid() (model.GridID, bool) {
	if s.game == nil {
		return "", false
	}
	for playerID, gridID := range s.game.PlayerIDToGridID {
		if playerID != s.playerID {
			return gridID, true
		}
	}
	return "", false
}

func (s *session) printTurn() {
	if s.game == nil || len(s.game.PlayerOrder) <= s.game.CurrentPlayerTurn {
		return
	}
	if s.game.PlayerOrder[s.game.CurrentPlayerTurn] == s.playerID {
		s.out.PrintMessage("Your turn")
	} else {
		s.out.PrintMessage("Waiting for opponent")
	}
}

func (s *session) printShot(shot model.ShotPayload) {
	result := "miss"
	if shot.Sunk {
		result = "hit and sunk"
	} else if shot.Hit {
		result = "hit"
	}
	shooter := "Opponent"
	if shot.PlayerID == s.playerID {
		shooter = "You"
	}
	s.out.PrintMessage(fmt.Sprintf("%s fired at %s: %s", shooter, shot.Coordinate, result))
}

func (s *session) printBoards() {
	s.out.PrintMessage("Your grid:")
	s.out.printGrid(s.own, true)
	target, ok := s.opponentGrid()
	if !ok {
		return
	}
	s.out.PrintMessage("Opponent grid:")
	s.out.printGrid(s.game.Grids[target], false)
}
