package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

func (h *Handler) bindLink(c *gin.Context, needType bool) (linkReq, domain.LinkType, bool) {
	var req linkReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SourceID == "" || req.TargetID == "" {
		badRequest(c, "source_id and target_id are required")
		return req, "", false
	}
	if !needType {
		return req, "", true
	}
	lt, err := domain.ParseLinkType(req.Type)
	if err != nil {
		badRequest(c, err.Error())
		return req, "", false
	}
	return req, lt, true
}

func (h *Handler) createLink(c *gin.Context) {
	req, lt, ok := h.bindLink(c, true)
	if !ok {
		return
	}
	l, err := h.catalog.CreateLink(c.Request.Context(), req.SourceID, req.TargetID, lt)
	if err != nil {
		fail(c, "create_link", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "link": l})
}

func (h *Handler) validateLink(c *gin.Context) {
	req, lt, ok := h.bindLink(c, true)
	if !ok {
		return
	}
	chk, err := h.catalog.ValidateLink(c.Request.Context(), req.SourceID, req.TargetID, lt)
	if err != nil {
		fail(c, "validate_link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "valid": chk.Valid, "reason": chk.Reason})
}

func (h *Handler) suggestLinkTypes(c *gin.Context) {
	req, _, ok := h.bindLink(c, false)
	if !ok {
		return
	}
	types, err := h.catalog.SuggestLinkTypes(c.Request.Context(), req.SourceID, req.TargetID)
	if err != nil {
		fail(c, "suggest_link_types", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "link_types": types})
}

func (h *Handler) listLinks(c *gin.Context) {
	items, err := h.catalog.ListLinks(c.Request.Context())
	if err != nil {
		fail(c, "list_links", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "links": items})
}

func (h *Handler) getLink(c *gin.Context) {
	l, err := h.catalog.GetLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "get_link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "link": l})
}

func (h *Handler) deleteLink(c *gin.Context) {
	if err := h.catalog.DeleteLink(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "delete_link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) linkTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "types": domain.LinkTypes()})
}

func (h *Handler) linksForComponent(c *gin.Context) {
	items, err := h.catalog.LinksForComponent(c.Request.Context(), c.Param("componentId"))
	if err != nil {
		fail(c, "links_for_component", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "links": items})
}

func (h *Handler) connectionStats(c *gin.Context) {
	st, err := h.catalog.ConnectionStats(c.Request.Context(), c.Param("componentId"))
	if err != nil {
		fail(c, "connection_stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "incoming": st.Incoming, "outgoing": st.Outgoing, "total": st.Total()})
}

func (h *Handler) getLinkHeuristics(c *gin.Context) {
	l, err := h.catalog.GetLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "get_link_heuristics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "heuristics": l.Heuristics})
}

func (h *Handler) updateLinkHeuristics(c *gin.Context) {
	var req heuristicsReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Heuristics == nil {
		badRequest(c, "heuristics are required")
		return
	}
	profile, err := profileOf(req.Heuristics)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	l, err := h.catalog.UpdateLinkHeuristics(c.Request.Context(), c.Param("id"), profile)
	if err != nil {
		fail(c, "update_link_heuristics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "link": l})
}

func (h *Handler) defaultLinkHeuristics(c *gin.Context) {
	lt, err := domain.ParseLinkType(c.Param("linkType"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "heuristics": h.catalog.DefaultLinkHeuristics(lt)})
}
