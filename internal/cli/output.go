package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/model"
)

// Response types shared with the API
type (
	Room        = response.Room
	RoomList    = response.RoomList
	MatchResult = response.MatchResult
	ResultList  = response.ResultList
	Fleet       = response.Fleet
	Bot         = response.Bot
)

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Rendered is a grid drawn by the server
type Rendered string

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	if r, ok := data.(Rendered); ok {
		data = map[string]string{"grid": string(r)}
	}
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case ResultList:
		o.printResults(v)
	case Fleet:
		o.printFleet(v)
	case Bot:
		fmt.Fprintf(o.w, "%s (%s) joined room %s\n", v.Name, v.PlayerID, v.RoomID)
	case Rendered:
		fmt.Fprint(o.w, string(v))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printRoom(r Room) {
	privateStr := "no"
	if r.Private {
		privateStr = "yes"
	}
	fmt.Fprintf(o.w, "Room: %s\n", r.RoomID)
	fmt.Fprintf(o.w, "Phase: %s\n", r.Phase)
	fmt.Fprintf(o.w, "Private: %s\n", privateStr)
	fmt.Fprintf(o.w, "Connections: %d\n", r.Connections)
	fmt.Fprintf(o.w, "Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		turnStr := ""
		if p.IsTurn {
			turnStr = " [to move]"
		}
		fmt.Fprintf(o.w, "  - %s (%s) grid %s, %d ships afloat%s\n", p.Name, p.PlayerID, p.GridID, p.ShipsRemaining, turnStr)
	}
	if r.Game.Winner != "" {
		fmt.Fprintf(o.w, "Winner: %s\n", r.Game.Winner)
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No rooms")
		return
	}
	for _, r := range l.Rooms {
		fmt.Fprintf(o.w, "%-20s %-9s %d/%d players  %d connections\n",
			r.RoomID, r.Phase, len(r.Players), model.MaxPlayers, r.Connections)
	}
}

func (o *Output) printResults(l ResultList) {
	if len(l.Results) == 0 {
		fmt.Fprintln(o.w, "No finished games")
		return
	}
	for _, m := range l.Results {
		fmt.Fprintf(o.w, "%s  %s beat %s in %d shots (%s)\n",
			m.FinishedAt.Format("2006-01-02 15:04"), m.WinnerName, m.LoserName, m.Shots, m.RoomID)
	}
}

func (o *Output) printFleet(f Fleet) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", f.Player.Name, f.Player.ID)
	fmt.Fprintf(o.w, "Grid: %s\n", f.Grid.ID)
	o.printGrid(f.Grid, true)
}

// printGrid draws a grid snapshot. Hidden squares render as water.
func (o *Output) printGrid(s model.GridSnapshot, reveal bool) {
	grid, err := model.GridFromSnapshot(s)
	if err != nil {
		fmt.Fprintf(o.w, "(cannot draw grid: %s)\n", err)
		return
	}
	fmt.Fprint(o.w, grid.Render(reveal))
}
