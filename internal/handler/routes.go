package handler

import "github.com/labstack/echo/v4"

func RegisterRoutes(e *echo.Echo, search *SearchHandler, conv *ConversationHandler, tx *TransactionHandler) {
	api := e.Group("/api/v1")
	api.POST("/flights/search", search.Search)
	api.POST("/flights/query", search.Query)

	api.POST("/converse", conv.Converse)
	api.POST("/conversations", conv.Create)
	api.POST("/conversations/:id/messages", conv.Send)
	api.GET("/conversations/:id", conv.Get)
	api.DELETE("/conversations/:id", conv.Delete)

	api.GET("/transactions/:kind", tx.List)

	e.GET("/health", HealthHandler)
}
