package http

import "github.com/gin-gonic/gin"

// Register attaches catalog and architecture routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	comps := rg.Group("/components")
	comps.GET("", h.listComponents)
	comps.POST("", h.createComponent)
	comps.GET("/types", h.componentTypes)
	comps.GET("/count", h.countComponents)
	comps.GET("/type/:type", h.componentsByType)
	comps.GET("/subtypes/:type", h.subtypes)
	comps.GET("/heuristics/:type/:subtype", h.defaultHeuristics)
	comps.GET("/:id", h.getComponent)
	comps.PUT("/:id", h.updateComponent)
	comps.DELETE("/:id", h.deleteComponent)
	comps.GET("/:id/exists", h.componentExists)

	links := rg.Group("/links")
	links.GET("", h.listLinks)
	links.POST("", h.createLink)
	links.POST("/validate", h.validateLink)
	links.POST("/suggest", h.suggestLinkTypes)
	links.GET("/types", h.linkTypes)
	links.GET("/component/:componentId", h.linksForComponent)
	links.GET("/component/:componentId/stats", h.connectionStats)
	links.GET("/heuristics/default/:linkType", h.defaultLinkHeuristics)
	links.GET("/:id", h.getLink)
	links.DELETE("/:id", h.deleteLink)
	links.GET("/:id/heuristics", h.getLinkHeuristics)
	links.PUT("/:id/heuristics", h.updateLinkHeuristics)

	arch := rg.Group("/architecture")
	arch.GET("", h.listArchitectures)
	arch.POST("", h.createArchitecture)
	arch.POST("/evaluate", h.evaluate)
	arch.POST("/compare", h.compare)
	arch.GET("/submitted", h.submitted)
	arch.GET("/rules", h.rules)
	arch.GET("/rules/:linkType", h.rulesForLinkType)
	arch.GET("/user/:userId", h.byUser)
	arch.GET("/question/:questionId", h.byQuestion)
	arch.GET("/visualize/:id", h.visualize)
	arch.GET("/:id", h.getArchitecture)
	arch.PUT("/:id", h.saveArchitecture)
	arch.DELETE("/:id", h.deleteArchitecture)
	arch.POST("/:id/components", h.addComponent)
	arch.POST("/:id/links", h.addLink)
	arch.GET("/:id/score", h.score)
	arch.GET("/:id/history", h.history)
	arch.POST("/:id/validate", h.validate)
	arch.POST("/:id/submit", h.submit)
	arch.POST("/:id/copy", h.copyArchitecture)
}
