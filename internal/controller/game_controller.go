package controller

import (
	"errors"
	"log"

	"github.com/benbeisheim/movelog-backend/internal/model"
	"github.com/benbeisheim/movelog-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type selectRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (r selectRequest) position() (model.Position, error) {
	if r.Row == nil || r.Col == nil {
		return model.Position{}, model.ErrBadPosition
	}
	return model.NewPosition(*r.Row, *r.Col)
}

// statusFor maps service and engine errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrBadPosition), errors.Is(err, model.ErrOutOfBounds):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrSelectionIncomplete),
		errors.Is(err, model.ErrNoPieceAtSource),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrNothingToUndo),
		errors.Is(err, model.ErrNothingToRedo):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusConflict {
		msg = model.Notice(err)
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// stateOrNotice answers with the state on success. Engine failures still
// carry the state, since a failed commit resets the selection.
func stateOrNotice(c *fiber.Ctx, state model.GameState, err error) error {
	if err == nil {
		return c.JSON(state)
	}
	if statusFor(err) != fiber.StatusConflict {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error": model.Notice(err),
		"state": state,
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	state, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": state.ID,
		"name":    state.Name,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) SelectCell(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	p, err := req.position()
	if err != nil {
		return errorResponse(c, err)
	}
	state, err := gc.gameService.SelectCell(c.Params("gameId"), p)
	return stateOrNotice(c, state, err)
}

func (gc *GameController) CancelSelection(c *fiber.Ctx) error {
	state, err := gc.gameService.CancelSelection(c.Params("gameId"))
	return stateOrNotice(c, state, err)
}

func (gc *GameController) Commit(c *fiber.Ctx) error {
	state, err := gc.gameService.Commit(c.Params("gameId"))
	return stateOrNotice(c, state, err)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	state, err := gc.gameService.Undo(c.Params("gameId"))
	return stateOrNotice(c, state, err)
}

func (gc *GameController) Redo(c *fiber.Ctx) error {
	state, err := gc.gameService.Redo(c.Params("gameId"))
	return stateOrNotice(c, state, err)
}
