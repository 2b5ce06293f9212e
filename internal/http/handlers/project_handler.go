package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/dto"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/service"
	"github.com/ahavlova/portfolio-backend/internal/validation"
)

// ProjectHandler обслуживает дерево портфолио: публичные страницы и
// административные операции.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler создаёт новый хэндлер.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// PublicTree обрабатывает GET /api/projects: опубликованная часть дерева.
func (h *ProjectHandler) PublicTree(c *gin.Context) {
	tree, err := h.projects.PublicTree(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TreeResponse{Tree: tree})
}

// GetBySlug обрабатывает GET /api/projects/:slug.
func (h *ProjectHandler) GetBySlug(c *gin.Context) {
	project, photos, err := h.projects.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProjectPageResponse{Project: project, Photos: photos})
}

// AdminTree обрабатывает GET /api/admin/projects: полное дерево.
func (h *ProjectHandler) AdminTree(c *gin.Context) {
	tree, err := h.projects.Tree(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TreeResponse{Tree: tree})
}

// Create обрабатывает POST /api/admin/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "имя проекта обязательно")
		return
	}
	if err := validation.ValidateProjectName(req.Name); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Create(c.Request.Context(), req.Name, req.IsCollection, req.ParentID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Rename обрабатывает PATCH /api/admin/projects/:id/name.
func (h *ProjectHandler) Rename(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.RenameProjectRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "новое имя обязательно")
		return
	}
	if err := validation.ValidateProjectName(req.Name); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	project, err := h.projects.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Reorder обрабатывает PUT /api/admin/projects/order.
func (h *ProjectHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "список идентификаторов обязателен")
		return
	}

	if err := h.projects.Reorder(c.Request.Context(), req.ParentID, req.OrderedIDs); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Move обрабатывает PUT /api/admin/projects/:id/parent.
func (h *ProjectHandler) Move(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.MoveProjectRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "тело запроса нечитаемо")
		return
	}

	if err := h.projects.MoveToCollection(c.Request.Context(), id, req.ParentID); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleVisibility обрабатывает POST /api/admin/projects/:id/visibility.
func (h *ProjectHandler) ToggleVisibility(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	published, err := h.projects.ToggleVisibility(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_published": published})
}

// SetTitleStyle обрабатывает PATCH /api/admin/projects/:id/title-style.
func (h *ProjectHandler) SetTitleStyle(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.TitleStyleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "стиль заголовка обязателен")
		return
	}

	if err := h.projects.UpdateTitleStyle(c.Request.Context(), id, models.TitleStyle(req.TitleStyle)); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDescriptions обрабатывает PATCH /api/admin/projects/:id/descriptions.
func (h *ProjectHandler) SetDescriptions(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.DescriptionsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "тело запроса нечитаемо")
		return
	}
	if err := validation.ValidateDescription(req.DescriptionCS); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateDescription(req.DescriptionEN); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.projects.UpdateDescriptions(c.Request.Context(), id, req.DescriptionCS, req.DescriptionEN); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetMainImage обрабатывает PATCH /api/admin/projects/:id/main-image.
func (h *ProjectHandler) SetMainImage(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.MainImageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "тело запроса нечитаемо")
		return
	}

	if err := h.projects.SetMainImage(c.Request.Context(), id, req.ImageURL); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete обрабатывает DELETE /api/admin/projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeletePhoto обрабатывает DELETE /api/admin/projects/:id/photos.
func (h *ProjectHandler) DeletePhoto(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	var req dto.DeletePhotoRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "адрес фотографии обязателен")
		return
	}

	if err := h.projects.DeletePhoto(c.Request.Context(), id, req.ImageURL); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
