package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/dto"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/validation"
)

// SelectionHandler принимает публичные действия клиентов галерей: отметки
// "нравится" и комментарии. Авторизации нет, достаточно знать ключ галереи;
// идентификатор клиента выбирает браузер и хранит в cookie.
type SelectionHandler struct {
	selections *service.SelectionService
}

// NewSelectionHandler создаёт новый хэндлер.
func NewSelectionHandler(selections *service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

// Seed обрабатывает GET /api/selections?client_id=: сохранённый выбор
// клиента при открытии галереи.
func (h *SelectionHandler) Seed(c *gin.Context) {
	clientID := c.Query("client_id")
	if err := validation.ValidateClientID(clientID); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	selections, err := h.selections.Seed(c.Request.Context(), clientID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SelectionSeedResponse{Selections: selections})
}

// ToggleLike обрабатывает POST /api/selections/like. Ответ приходит сразу,
// запись в базу выполняется асинхронно.
func (h *SelectionHandler) ToggleLike(c *gin.Context) {
	var req dto.ToggleLikeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "идентификаторы клиента и фотографии обязательны")
		return
	}
	if err := validation.ValidateClientID(req.ClientID); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	liked := h.selections.ToggleLike(req.ClientID, req.PhotoID)
	c.JSON(http.StatusOK, dto.ToggleLikeResponse{Liked: liked})
}

// Comment обрабатывает POST /api/selections/comment.
func (h *SelectionHandler) Comment(c *gin.Context) {
	var req dto.CommentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "идентификаторы клиента и фотографии обязательны")
		return
	}
	if err := validation.ValidateClientID(req.ClientID); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateComment(req.Comment); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	h.selections.SetComment(req.ClientID, req.PhotoID, req.Comment)
	c.Status(http.StatusAccepted)
}
