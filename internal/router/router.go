package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/lifemap/diary/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Entry   *apiHandler.EntryHandler
	Draft   *apiHandler.DraftHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/entries", authMiddleware(handlers.Entry.Recent))
	r.PUT("/api/v1/entries", authMiddleware(handlers.Entry.Save))
	r.GET("/api/v1/entries/latest", authMiddleware(handlers.Entry.Latest))
	r.GET("/api/v1/entries/watch", authMiddleware(handlers.Entry.Watch))
	r.GET("/api/v1/entries/by-date/{date}", authMiddleware(handlers.Entry.Get))
	r.GET("/api/v1/entries/by-date/{date}/text", authMiddleware(handlers.Entry.Text))

	r.GET("/api/v1/draft", authMiddleware(handlers.Draft.Get))
	r.PUT("/api/v1/draft", authMiddleware(handlers.Draft.Replace))
	r.POST("/api/v1/draft/items", authMiddleware(handlers.Draft.AddItem))
	r.DELETE("/api/v1/draft/items/{id}", authMiddleware(handlers.Draft.RemoveItem))
	r.PATCH("/api/v1/draft/items/{id}", authMiddleware(handlers.Draft.EditItem))
	r.PUT("/api/v1/draft/items/{id}/timestamps", authMiddleware(handlers.Draft.SetItemTimestamps))
	r.POST("/api/v1/draft/items/{id}/toggle", authMiddleware(handlers.Draft.ToggleItem))
	r.POST("/api/v1/draft/items/{id}/move", authMiddleware(handlers.Draft.MoveItem))
	r.POST("/api/v1/draft/save", authMiddleware(handlers.Draft.Save))
	r.POST("/api/v1/draft/next-day", authMiddleware(handlers.Draft.NextDay))
	r.POST("/api/v1/draft/today", authMiddleware(handlers.Draft.Today))
	r.POST("/api/v1/draft/load", authMiddleware(handlers.Draft.LoadEntry))
	r.POST("/api/v1/draft/load-latest", authMiddleware(handlers.Draft.LoadLatest))

	return r
}
