package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battleship-go/internal/api"
	"github.com/mcoot/battleship-go/internal/api/apierr"
	"github.com/mcoot/battleship-go/internal/api/response"
	"github.com/mcoot/battleship-go/internal/factory"
	"github.com/mcoot/battleship-go/internal/model"
	"github.com/mcoot/battleship-go/internal/services/room"
	"github.com/mcoot/battleship-go/internal/testutil"
)

type nopConn struct{ id room.ConnID }

func (c nopConn) ID() room.ConnID     { return c.id }
func (c nopConn) Send(model.Message) {}

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	router := api.NewRouter(api.RouterConfig{
		Logger:           testutil.NopLogger(),
		Coordinator:      app.Coordinator,
		FleetService:     app.FleetService,
		BotService:       app.BotService,
		Metrics:          app.Metrics,
		WebsocketHandler: app.WebsocketHandler,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// join seats a freshly generated fleet in a room
func (ts *testServer) join(t *testing.T, roomID model.RoomID, name string) (*model.Player, *model.Grid) {
	t.Helper()
	player, grid, err := ts.app.FleetService.RandomFleet(name)
	require.NoError(t, err)
	conn := nopConn{id: room.ConnID("conn-" + name)}
	ts.app.Coordinator.Connect(conn)
	require.NoError(t, ts.app.Coordinator.JoinGame(context.Background(), conn, room.JoinGameArgs{
		RoomID: roomID, Player: player, Grid: grid,
	}))
	return player, grid
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestListRoomsEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.RoomList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rooms)
}

func TestGetRoomRedactsFleets(t *testing.T) {
	ts := newTestServer(t)
	alice, aliceGrid := ts.join(t, "room-1", "Alice")
	ts.join(t, "room-1", "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/room-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "room-1", resp.RoomID)
	assert.Equal(t, string(model.GamePhaseSetup), resp.Phase)
	assert.Equal(t, 2, resp.Connections)
	require.Len(t, resp.Players, 2)
	assert.Equal(t, string(alice.ID), resp.Players[0].PlayerID)
	assert.Equal(t, "Alice", resp.Players[0].Name)
	assert.Equal(t, string(aliceGrid.ID), resp.Players[0].GridID)
	assert.Equal(t, len(model.StandardFleetLengths), resp.Players[0].ShipsRemaining)

	for _, sq := range resp.Game.Grids[aliceGrid.ID].Squares {
		assert.Nil(t, sq.HasShip)
		assert.Empty(t, sq.ShipID)
	}
	for _, ship := range resp.Game.Players[alice.ID].Ships {
		assert.Empty(t, ship.Coordinates)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "ROOM_NOT_FOUND", decodeError(t, rr).Code)
}

func TestGetRoomInvalidID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+strings.Repeat("x", model.MaxRoomIDLength+1), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_ROOM_ID", decodeError(t, rr).Code)
}

func TestRenderGridHidesShipsDuringGame(t *testing.T) {
	ts := newTestServer(t)
	_, grid := ts.join(t, "room-1", "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/room-1/grids/"+string(grid.ID)+"/render", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "A |")
	assert.NotContains(t, rr.Body.String(), "S")

	rr = ts.request(http.MethodGet, "/api/v1/rooms/room-1/grids/missing/render", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "UNKNOWN_GRID", decodeError(t, rr).Code)
}

func TestRandomFleet(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/fleets/random", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Fleet
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.Player.Name)
	require.Len(t, resp.Player.Ships, len(model.StandardFleetLengths))
	assert.Len(t, resp.Grid.Squares, model.GridSize*model.GridSize)

	// The fleet is ready to join with
	player, err := model.PlayerFromSnapshot(resp.Player)
	require.NoError(t, err)
	grid, err := model.GridFromSnapshot(resp.Grid)
	require.NoError(t, err)
	assert.NoError(t, model.ValidateFleet(player, grid))
}

func TestRandomFleetValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/fleets/random", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/fleets/random", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResults(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for _, id := range []model.RoomID{"room-1", "room-2"} {
		require.NoError(t, ts.app.Storage.SaveMatchResult(ctx, &model.MatchResult{
			RoomID:     id,
			Winner:     "alice",
			WinnerName: "Alice",
			Loser:      "bob",
			LoserName:  "Bob",
			Shots:      40,
			FinishedAt: ts.app.MockClock.Now(),
		}))
	}

	rr := ts.request(http.MethodGet, "/api/v1/results?limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.ResultList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "room-2", resp.Results[0].RoomID)
	assert.Equal(t, "Alice", resp.Results[0].WinnerName)

	rr = ts.request(http.MethodGet, "/api/v1/results?limit=lots", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/api/v1/health", nil)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `bship_http_requests_total{method="GET",status="200"} 1`)
}

func TestWebsocketThroughRouter(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	msg, err := model.NewMessage(model.EventStartGame, model.StartGamePayload{RoomID: "room-1"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	var reply model.Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, model.EventCommandRejected, reply.Type)
}

func TestAddBot(t *testing.T) {
	ts := newTestServer(t)
	ts.join(t, "room-1", "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/room-1/bots", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Bot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "room-1", resp.RoomID)
	assert.NotEmpty(t, resp.PlayerID)
	assert.Equal(t, "Bot (hunt)", resp.Name)
	assert.Equal(t, 1, ts.app.BotService.BotCount())

	rr = ts.request(http.MethodGet, "/api/v1/rooms/room-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var roomResp response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roomResp))
	assert.Equal(t, string(model.GamePhaseSetup), roomResp.Phase)
	assert.Len(t, roomResp.Players, 2)

	// The seat is taken now
	rr = ts.request(http.MethodPost, "/api/v1/rooms/room-1/bots", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "ROOM_FULL", decodeError(t, rr).Code)
}

func TestAddBotErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/rooms/nowhere/bots", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	ts.join(t, "room-1", "Alice")
	rr = ts.request(http.MethodPost, "/api/v1/rooms/room-1/bots", map[string]string{"strategy": "cheat"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "UNKNOWN_STRATEGY", decodeError(t, rr).Code)
}

func TestAddBotToPrivateRoom(t *testing.T) {
	ts := newTestServer(t)
	player, grid, err := ts.app.FleetService.RandomFleet("Alice")
	require.NoError(t, err)
	aliceConn := nopConn{id: "conn-alice"}
	ts.app.Coordinator.Connect(aliceConn)
	require.NoError(t, ts.app.Coordinator.JoinGame(context.Background(), aliceConn, room.JoinGameArgs{
		RoomID: "secret", Passcode: "hunter2", Player: player, Grid: grid,
	}))

	rr := ts.request(http.MethodPost, "/api/v1/rooms/secret/bots", map[string]string{"passcode": "wrong"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "INVALID_PASSCODE", decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/rooms/secret/bots", map[string]string{"passcode": "hunter2"})
	assert.Equal(t, http.StatusCreated, rr.Code)
}
