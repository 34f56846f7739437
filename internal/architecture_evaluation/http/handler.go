package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/service"
)

// Handler bundles the dependencies for the evaluation HTTP endpoints.
type Handler struct {
	catalog *service.CatalogService
	archs   *service.ArchitectureService
}

func New(catalog *service.CatalogService, archs *service.ArchitectureService) *Handler {
	return &Handler{catalog: catalog, archs: archs}
}

// fail maps service errors onto status codes and the {"ok":false} body.
func fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	var ce *domain.ConnectionError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &ce):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyAttached):
		status = http.StatusConflict
	case service.IsClientError(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		service.NewLogger(c.Request.Context()).LogError(op, err)
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
