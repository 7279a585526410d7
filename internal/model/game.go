package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/movelog-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	players map[string]*Player // playerID -> player
	mu      sync.RWMutex
}

// Game is one board session: a BoardState, its MoveHistory and the clients
// watching it. All engine calls go through mu so taps are applied in the
// order they arrive.
type Game struct {
	ID          string
	Name        string
	mu          sync.Mutex
	board       *BoardState
	history     *MoveHistory
	notice      string
	lastMove    *Move
	lastActive  time.Time
	version     uint64
	connections *GameConnections
}

type GameState struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Version   uint64         `json:"version"`
	Board     [][]*Piece     `json:"board"`
	FEN       string         `json:"fen"`
	Selection Selection      `json:"selection"`
	UndoDepth int            `json:"undoDepth"`
	RedoDepth int            `json:"redoDepth"`
	Moves     []Move         `json:"moves"`
	LastMove  *Move          `json:"lastMove"`
	Notice    string         `json:"notice"`
	Players   []ClientPlayer `json:"players"`
}

func NewGame(id, name string) *Game {
	return NewGameWithBoard(id, name, NewBoard())
}

func NewGameWithBoard(id, name string, board *BoardState) *Game {
	return &Game{
		ID:          id,
		Name:        name,
		board:       board,
		history:     NewMoveHistory(board),
		lastActive:  time.Now(),
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		players: make(map[string]*Player),
	}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) PieceAt(p Position) Piece {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.PieceAt(p)
}

func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lastActive
}

func (g *Game) SelectCell(p Position) (GameState, error) {
	if !p.Valid() {
		return GameState{}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.history.SelectCell(p)
	g.notice = ""
	return g.changed(), nil
}

func (g *Game) CancelSelection() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.history.CancelSelection()
	g.notice = ""
	return g.changed()
}

// Commit, Undo and Redo always return the resulting state, also on failure,
// so callers can redraw the reset selection alongside the notice.
func (g *Game) Commit() (GameState, error) {
	return g.apply(g.history.Commit)
}

func (g *Game) Undo() (GameState, error) {
	return g.apply(g.history.Undo)
}

func (g *Game) Redo() (GameState, error) {
	return g.apply(g.history.Redo)
}

func (g *Game) apply(op func() (Move, error)) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	move, err := op()
	if err != nil {
		g.notice = Notice(err)
		return g.changed(), err
	}
	g.lastMove = &move
	g.notice = move.String()
	return g.changed(), nil
}

// Notice turns an engine error into the message shown to the user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSelectionIncomplete):
		return "Select a piece and a target cell first"
	case errors.Is(err, ErrNoPieceAtSource), errors.Is(err, ErrEmptySource):
		return "No piece selected to move"
	case errors.Is(err, ErrNothingToUndo):
		return "No moves to undo"
	case errors.Is(err, ErrNothingToRedo):
		return "No moves to redo"
	default:
		return err.Error()
	}
}

// changed must be called with g.mu held. Broadcasts may reach clients out of
// order; Version lets them drop stale states.
func (g *Game) changed() GameState {
	g.lastActive = time.Now()
	g.version++
	state := g.snapshot()
	go g.broadcastState(state)
	return state
}

func (g *Game) snapshot() GameState {
	var lastMove *Move
	if g.lastMove != nil {
		m := *g.lastMove
		lastMove = &m
	}
	return GameState{
		ID:        g.ID,
		Name:      g.Name,
		Version:   g.version,
		Board:     g.board.Rows(),
		FEN:       g.board.FEN(),
		Selection: g.history.Selection(),
		UndoDepth: g.history.UndoDepth(),
		RedoDepth: g.history.RedoDepth(),
		Moves:     g.history.Moves(),
		LastMove:  lastMove,
		Notice:    g.notice,
		Players:   g.connections.list(),
	}
}

func (gc *GameConnections) list() []ClientPlayer {
	gc.mu.RLock()
	defer gc.mu.RUnlock()

	players := make([]ClientPlayer, 0, len(gc.players))
	for _, p := range gc.players {
		players = append(players, ClientPlayer{ID: p.ID, ConnectedAt: p.ConnectedAt})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Printf("registering connection %s for player %s in game %s", connID, playerID, g.ID)

	g.connections.mu.Lock()
	if _, exists := g.connections.players[playerID]; exists {
		// Keep the existing connection and turn the new one away
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.players[playerID] = &Player{ID: playerID, Conn: conn, ConnectedAt: time.Now()}
	g.connections.mu.Unlock()

	g.mu.Lock()
	g.changed()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection drops the player only if conn is still the one on record.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	p, exists := g.connections.players[playerID]
	if !exists || p.Conn != conn {
		g.connections.mu.Unlock()
		log.Printf("ignoring unregister for stale connection %p of player %s", conn, playerID)
		return
	}
	delete(g.connections.players, playerID)
	g.connections.mu.Unlock()

	g.mu.Lock()
	g.changed()
	g.mu.Unlock()
}

// Send writes msg to a single connection. It takes the same lock as the
// broadcast so a connection never has two writers.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("failed to marshal state for game %s: %v", g.ID, err)
		return
	}

	// Writes are serialised under the write lock; a websocket allows one writer.
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, p := range g.connections.players {
		if p.Conn == nil {
			continue
		}
		if err := p.Conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("failed to send state to player %s: %v", playerID, err)
			delete(g.connections.players, playerID)
		}
	}
}
