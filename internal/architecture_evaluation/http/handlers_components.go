package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/service"
)

func (h *Handler) createComponent(c *gin.Context) {
	var req createComponentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	ct, err := domain.ParseComponentType(req.Type)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	sub, err := parseSubtype(ct, req.Subtype)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	profile, err := profileOf(req.Heuristics)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	comp, err := h.catalog.CreateComponent(c.Request.Context(), service.CreateComponentInput{
		Name:       req.Name,
		Type:       ct,
		Subtype:    sub,
		Properties: req.Properties,
		Heuristics: profile,
		Position:   req.Position,
	})
	if err != nil {
		fail(c, "create_component", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "component": comp})
}

func (h *Handler) listComponents(c *gin.Context) {
	items, err := h.catalog.ListComponents(c.Request.Context())
	if err != nil {
		fail(c, "list_components", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "components": items})
}

func (h *Handler) getComponent(c *gin.Context) {
	comp, err := h.catalog.GetComponent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "get_component", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "component": comp})
}

func (h *Handler) updateComponent(c *gin.Context) {
	var req updateComponentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	profile, err := profileOf(req.Heuristics)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	u := service.ComponentUpdate{
		Name:       req.Name,
		Properties: req.Properties,
		Heuristics: profile,
		Position:   req.Position,
	}
	if req.Subtype != nil {
		sub := domain.Subtype(strings.ToUpper(strings.TrimSpace(*req.Subtype)))
		u.Subtype = &sub
	}

	comp, err := h.catalog.UpdateComponent(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		fail(c, "update_component", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "component": comp})
}

func (h *Handler) deleteComponent(c *gin.Context) {
	if err := h.catalog.DeleteComponent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "delete_component", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) componentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "types": domain.ComponentTypes()})
}

func (h *Handler) countComponents(c *gin.Context) {
	n, err := h.catalog.CountComponents(c.Request.Context())
	if err != nil {
		fail(c, "count_components", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": n})
}

func (h *Handler) componentsByType(c *gin.Context) {
	ct, err := domain.ParseComponentType(c.Param("type"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	items, err := h.catalog.ListComponentsByType(c.Request.Context(), ct)
	if err != nil {
		fail(c, "list_components_by_type", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "components": items})
}

func (h *Handler) componentExists(c *gin.Context) {
	ok, err := h.catalog.ComponentExists(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "component_exists", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "exists": ok})
}

func (h *Handler) subtypes(c *gin.Context) {
	ct, err := domain.ParseComponentType(c.Param("type"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "subtypes": h.catalog.Subtypes(ct)})
}

func (h *Handler) defaultHeuristics(c *gin.Context) {
	ct, err := domain.ParseComponentType(c.Param("type"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	sub, err := parseSubtype(ct, c.Param("subtype"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "heuristics": h.catalog.DefaultHeuristics(ct, sub)})
}

// parseSubtype treats "" and "default" as no subtype.
func parseSubtype(ct domain.ComponentType, s string) (domain.Subtype, error) {
	if s == "" || strings.EqualFold(s, string(domain.SubtypeDefault)) {
		return "", nil
	}
	return domain.ParseSubtype(ct, s)
}
