package controller

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/benbeisheim/movelog-backend/internal/service"
	"github.com/benbeisheim/movelog-backend/internal/ws"
	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
)

type wsStateBody struct {
	Version uint64 `json:"version"`
	stateBody
}

func startServer(t *testing.T) (string, *service.GameService) {
	t.Helper()
	gm := service.NewGameManager(0)
	t.Cleanup(gm.Close)
	gs := service.NewGameService(gm)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	SetupRoutes(app, gs, []string{"*"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
	return ln.Addr().String(), gs
}

func dial(t *testing.T, addr, gameID, playerID string) *fws.Conn {
	t.Helper()
	url := "ws://" + addr + "/ws/game/" + gameID + "?playerId=" + playerID
	conn, _, err := fws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *fws.Conn, msgType ws.MessageType, payload string) {
	t.Helper()
	msg := ws.Message{Type: msgType}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readMessage skips messages of other types until one of msgType arrives.
func readMessage(t *testing.T, conn *fws.Conn, msgType ws.MessageType) ws.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func readError(t *testing.T, conn *fws.Conn) string {
	t.Helper()
	msg := readMessage(t, conn, ws.MessageTypeError)
	var payload ws.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Error
}

// readState returns the first broadcast newer than after that satisfies ok.
// Broadcasts can arrive out of order, so older versions are skipped.
func readState(t *testing.T, conn *fws.Conn, after uint64, ok func(wsStateBody) bool) wsStateBody {
	t.Helper()
	for {
		msg := readMessage(t, conn, ws.MessageTypeGameState)
		var state wsStateBody
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if state.Version > after && ok(state) {
			return state
		}
	}
}

func TestWebSocketDispatch(t *testing.T) {
	addr, gs := startServer(t)
	created, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	conn := dial(t, addr, created.ID, "alice")
	state := readState(t, conn, 0, func(wsStateBody) bool { return true })

	send(t, conn, ws.MessageTypeUndo, "")
	if got := readError(t, conn); got != "No moves to undo" {
		t.Fatalf("expected %q, got %q", "No moves to undo", got)
	}

	send(t, conn, ws.MessageTypeSelect, `{"row":6,"col":4}`)
	state = readState(t, conn, state.Version, func(s wsStateBody) bool {
		return s.Selection.State == "sourceChosen"
	})
	send(t, conn, ws.MessageTypeSelect, `{"row":4,"col":4}`)
	send(t, conn, ws.MessageTypeCommit, "")
	state = readState(t, conn, state.Version, func(s wsStateBody) bool { return s.UndoDepth == 1 })
	if state.Board[4][4] == nil || state.Board[6][4] != nil || state.Notice != "Moved from 6,4 to 4,4" {
		t.Fatalf("unexpected state after commit: %+v", state)
	}

	send(t, conn, ws.MessageTypeUndo, "")
	state = readState(t, conn, state.Version, func(s wsStateBody) bool { return s.RedoDepth == 1 })
	if state.UndoDepth != 0 || state.Board[6][4] == nil {
		t.Fatalf("unexpected state after undo: %+v", state)
	}

	send(t, conn, ws.MessageTypeRedo, "")
	state = readState(t, conn, state.Version, func(s wsStateBody) bool { return s.UndoDepth == 1 })
	if state.RedoDepth != 0 || state.Board[4][4] == nil {
		t.Fatalf("unexpected state after redo: %+v", state)
	}

	send(t, conn, ws.MessageTypeSelect, `{"row":1,"col":0}`)
	state = readState(t, conn, state.Version, func(s wsStateBody) bool {
		return s.Selection.State == "sourceChosen"
	})
	send(t, conn, ws.MessageTypeCancel, "")
	readState(t, conn, state.Version, func(s wsStateBody) bool { return s.Selection.State == "idle" })
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	addr, gs := startServer(t)
	created, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	conn := dial(t, addr, created.ID, "alice")

	send(t, conn, ws.MessageTypeSelect, `{"row":1}`)
	if got := readError(t, conn); got != "malformed position" {
		t.Fatalf("expected a malformed position error, got %q", got)
	}
	send(t, conn, ws.MessageTypeSelect, `{"row":9,"col":0}`)
	if got := readError(t, conn); got != "position out of bounds: (9,0)" {
		t.Fatalf("expected an out of bounds error, got %q", got)
	}
	send(t, conn, "bogus", "")
	if got := readError(t, conn); got != "unknown message type: bogus" {
		t.Fatalf("unexpected error %q", got)
	}
}

// Every failed commit answers with an error while the game also broadcasts
// the reset state to the same connection.
func TestWebSocketErrorsAndBroadcastsShareTheWriter(t *testing.T) {
	addr, gs := startServer(t)
	created, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	conn := dial(t, addr, created.ID, "alice")

	const n = 100
	for i := 0; i < n; i++ {
		send(t, conn, ws.MessageTypeCommit, "")
	}
	for i := 0; i < n; i++ {
		if got := readError(t, conn); got != "Select a piece and a target cell first" {
			t.Fatalf("error %d: unexpected %q", i, got)
		}
	}
}

func TestWebSocketDuplicatePlayerIsClosed(t *testing.T) {
	addr, gs := startServer(t)
	created, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	first := dial(t, addr, created.ID, "alice")
	readMessage(t, first, ws.MessageTypeGameState)

	second := dial(t, addr, created.ID, "alice")
	second.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := second.ReadMessage(); !fws.IsCloseError(err, fws.CloseNormalClosure) {
		t.Fatalf("expected the second connection to be closed, got %v", err)
	}

	send(t, first, ws.MessageTypeRedo, "")
	if got := readError(t, first); got != "No moves to redo" {
		t.Fatalf("expected the first connection to keep working, got %q", got)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	addr, _ := startServer(t)
	conn := dial(t, addr, "nope", "alice")
	if got := readError(t, conn); got != "game not found" {
		t.Fatalf("expected game not found, got %q", got)
	}
}
