package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/benbeisheim/movelog-backend/internal/middleware"
	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/benbeisheim/movelog-backend/internal/service"
	"github.com/benbeisheim/movelog-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("failed to register connection: %v", err)
		wsc.sendError(gameID, c, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error for player %s: %v", playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse error: %v", err)
			wsc.sendError(gameID, c, fmt.Errorf("malformed message: %w", err))
			continue
		}

		// State changes reach every connection through the game broadcast;
		// only failures are answered directly.
		if err := wsc.handleMessage(gameID, msg); err != nil {
			wsc.sendError(gameID, c, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID string, msg ws.Message) error {
	var err error
	switch msg.Type {
	case ws.MessageTypeSelect:
		var req selectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("%w: %v", model.ErrBadPosition, err)
		}
		p, perr := req.position()
		if perr != nil {
			return perr
		}
		_, err = wsc.gameService.SelectCell(gameID, p)
	case ws.MessageTypeCommit:
		_, err = wsc.gameService.Commit(gameID)
	case ws.MessageTypeUndo:
		_, err = wsc.gameService.Undo(gameID)
	case ws.MessageTypeRedo:
		_, err = wsc.gameService.Redo(gameID)
	case ws.MessageTypeCancel:
		_, err = wsc.gameService.CancelSelection(gameID)
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}
	return err
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: model.Notice(err)})
	if werr := wsc.gameService.Send(gameID, c, ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); werr != nil {
		log.Printf("failed to send error: %v", werr)
	}
}
