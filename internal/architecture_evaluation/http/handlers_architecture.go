package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/auth"
)

func (h *Handler) createArchitecture(c *gin.Context) {
	var req nameReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		badRequest(c, "invalid body")
		return
	}
	a, err := h.archs.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "create_architecture", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) listArchitectures(c *gin.Context) {
	items, err := h.archs.List(c.Request.Context())
	if err != nil {
		fail(c, "list_architectures", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architectures": items})
}

func (h *Handler) getArchitecture(c *gin.Context) {
	a, err := h.archs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "get_architecture", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture": a})
}

// saveArchitecture accepts either a full document or just {"name": ...}.
func (h *Handler) saveArchitecture(c *gin.Context) {
	var body domain.Architecture
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid body")
		return
	}
	var (
		a   *domain.Architecture
		err error
	)
	if body.Components == nil && body.Links == nil {
		a, err = h.archs.Rename(c.Request.Context(), c.Param("id"), body.Name)
	} else {
		a, err = h.archs.Save(c.Request.Context(), c.Param("id"), &body)
	}
	if err != nil {
		fail(c, "save_architecture", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) deleteArchitecture(c *gin.Context) {
	if err := h.archs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "delete_architecture", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) addComponent(c *gin.Context) {
	var req attachReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		badRequest(c, "id is required")
		return
	}
	a, err := h.archs.AddComponent(c.Request.Context(), c.Param("id"), req.ID)
	if err != nil {
		fail(c, "add_component", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) addLink(c *gin.Context) {
	var req attachReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		badRequest(c, "id is required")
		return
	}
	a, err := h.archs.AddLink(c.Request.Context(), c.Param("id"), req.ID)
	if err != nil {
		fail(c, "add_link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) evaluate(c *gin.Context) {
	var req evaluateReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ArchitectureID == "" {
		badRequest(c, "architecture_id is required")
		return
	}
	r, err := h.archs.EvaluateDetailed(c.Request.Context(), req.ArchitectureID)
	if err != nil {
		fail(c, "evaluate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": r})
}

func (h *Handler) score(c *gin.Context) {
	s, err := h.archs.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "score", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture_id": c.Param("id"), "score": s})
}

func (h *Handler) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.archs.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		fail(c, "history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "history": items})
}

func (h *Handler) visualize(c *gin.Context) {
	dot, err := h.archs.Visualize(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "visualize", err)
		return
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dot))
}

func (h *Handler) compare(c *gin.Context) {
	var req compareReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ArchitectureAID == "" || req.ArchitectureBID == "" {
		badRequest(c, "architecture_a_id and architecture_b_id are required")
		return
	}
	cmp, err := h.archs.Compare(c.Request.Context(), req.ArchitectureAID, req.ArchitectureBID)
	if err != nil {
		fail(c, "compare", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "comparison": cmp})
}

func (h *Handler) validate(c *gin.Context) {
	res, err := h.archs.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "validate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "valid": res.Valid, "violations": res.Violations, "warnings": res.Warnings})
}

// submit takes the user from the body, falling back to the authenticated
// caller.
func (h *Handler) submit(c *gin.Context) {
	var req submitReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid body")
			return
		}
	}
	if req.UserID == "" {
		req.UserID = auth.UserFirebaseUID(c)
	}
	if req.UserID == "" {
		badRequest(c, "user_id is required")
		return
	}
	a, err := h.archs.Submit(c.Request.Context(), c.Param("id"), req.UserID, req.QuestionID)
	if err != nil {
		fail(c, "submit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) copyArchitecture(c *gin.Context) {
	var req nameReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid body")
			return
		}
	}
	a, err := h.archs.Copy(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		fail(c, "copy_architecture", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "architecture": a})
}

func (h *Handler) byUser(c *gin.Context) {
	items, err := h.archs.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, "list_by_user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architectures": items})
}

func (h *Handler) byQuestion(c *gin.Context) {
	items, err := h.archs.ListByQuestion(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		fail(c, "list_by_question", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architectures": items})
}

func (h *Handler) submitted(c *gin.Context) {
	items, err := h.archs.ListSubmitted(c.Request.Context())
	if err != nil {
		fail(c, "list_submitted", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "architectures": items})
}

func (h *Handler) rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "rules": h.archs.Rules().AllRules()})
}

func (h *Handler) rulesForLinkType(c *gin.Context) {
	lt, err := domain.ParseLinkType(c.Param("linkType"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "rules": h.archs.Rules().RulesForLinkType(lt)})
}
