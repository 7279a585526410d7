// service/game_manager.go
package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/movelog-backend/internal/model"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games       map[string]*model.Game
	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
}

// NewGameManager starts a sweeper that drops games idle for longer than
// idleTimeout. A zero timeout keeps games forever.
func NewGameManager(idleTimeout time.Duration) *GameManager {
	gm := &GameManager{
		games:       make(map[string]*model.Game),
		idleTimeout: idleTimeout,
		stop:        make(chan struct{}),
	}

	if idleTimeout > 0 {
		go gm.sweepIdleGames()
	}

	return gm
}

func (gm *GameManager) sweepIdleGames() {
	interval := gm.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := gm.CleanIdleGames(now); n > 0 {
				log.Printf("removed %d idle games", n)
			}
		case <-gm.stop:
			return
		}
	}
}

// CleanIdleGames removes games whose last activity is older than the idle
// timeout, measured from now. It returns how many were removed.
func (gm *GameManager) CleanIdleGames(now time.Time) int {
	if gm.idleTimeout <= 0 {
		return 0
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	removed := 0
	for id, game := range gm.games {
		if now.Sub(game.LastActive()) > gm.idleTimeout {
			delete(gm.games, id)
			removed++
		}
	}
	return removed
}

func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() { close(gm.stop) })
}

func (gm *GameManager) CreateGame() (*model.Game, error) {
	gameID := uuid.New().String()
	game := model.NewGame(gameID, petname.Generate(2, "-"))
	if err := gm.AddGame(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (gm *GameManager) AddGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return ErrGameExists
	}

	gm.games[game.ID] = game
	log.Printf("created game %s (%s)", game.ID, game.Name)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID, conn)
}
