package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battleship-go/internal/api"
	"github.com/mcoot/battleship-go/internal/factory"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "bship-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bship")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	wsURL    string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Coordinator:      app.Coordinator,
		FleetService:     app.FleetService,
		BotService:       app.BotService,
		Metrics:          app.Metrics,
		WebsocketHandler: app.WebsocketHandler,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr:  serverURL,
		wsURL: "ws://" + addr + "/ws",
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = app.Close(ctx)
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// joinOverWebsocket seats a player and waits for the acknowledgement
func joinOverWebsocket(t *testing.T, wsURL string, roomID string, fleet fleetResponse) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	msg, err := model.NewMessage(model.EventJoinGame, model.JoinGamePayload{
		RoomID: model.RoomID(roomID),
		Player: fleet.Player,
		Grid:   fleet.Grid,
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ack model.Message
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, model.EventJoinAck, ack.Type)

	return conn
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type fleetResponse struct {
	Player model.PlayerSnapshot `json:"player"`
	Grid   model.GridSnapshot   `json:"grid"`
}

type roomResponse struct {
	RoomID  string `json:"room_id"`
	Phase   string `json:"phase"`
	Players []struct {
		PlayerID string `json:"player_id"`
		Name     string `json:"name"`
		GridID   string `json:"grid_id"`
	} `json:"players"`
	Connections int `json:"connections"`
}

type roomListResponse struct {
	Rooms []roomResponse `json:"rooms"`
}

type resultListResponse struct {
	Results []json.RawMessage `json:"results"`
}

type renderResponse struct {
	Grid string `json:"grid"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_FleetRandom(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("fleet", "random", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var fleet fleetResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fleet))
	assert.Equal(t, "Alice", fleet.Player.Name)
	assert.Len(t, fleet.Player.Ships, len(model.StandardFleetLengths))

	player, err := model.PlayerFromSnapshot(fleet.Player)
	require.NoError(t, err)
	grid, err := model.GridFromSnapshot(fleet.Grid)
	require.NoError(t, err)
	assert.NoError(t, model.ValidateFleet(player, grid))
}

func TestCLI_EmptyServer(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("rooms", "list")
	require.NoError(t, err, "output: %s", output)
	var rooms roomListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rooms))
	assert.Empty(t, rooms.Rooms)

	output, err = cli.run("results", "--limit", "5")
	require.NoError(t, err, "output: %s", output)
	var results resultListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	assert.Empty(t, results.Results)

	output, err = cli.run("rooms", "get", "nowhere")
	require.Error(t, err)
	assert.Contains(t, output, "ROOM_NOT_FOUND")
}

func TestCLI_InspectLiveRoom(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("fleet", "random", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var fleet fleetResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fleet))

	conn := joinOverWebsocket(t, ts.wsURL, "harbour", fleet)
	defer func() { _ = conn.Close() }()

	output, err = cli.run("rooms", "list")
	require.NoError(t, err, "output: %s", output)
	var rooms roomListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "harbour", rooms.Rooms[0].RoomID)
	assert.Equal(t, string(model.GamePhaseWaiting), rooms.Rooms[0].Phase)

	output, err = cli.run("rooms", "get", "harbour")
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Alice", room.Players[0].Name)
	assert.Equal(t, 1, room.Connections)

	// Ships stay hidden while the game is running
	output, err = cli.run("rooms", "render", "harbour", string(fleet.Grid.ID))
	require.NoError(t, err, "output: %s", output)
	var rendered renderResponse
	require.NoError(t, json.Unmarshal([]byte(output), &rendered))
	assert.Contains(t, rendered.Grid, "~")
	assert.False(t, strings.Contains(rendered.Grid, "S"))
}
