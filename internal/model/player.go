package model

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// Player is a client watching or driving a game over a websocket.
type Player struct {
	ID          string
	Conn        *websocket.Conn
	ConnectedAt time.Time
}

type ClientPlayer struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connectedAt"`
}
