package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/echoself/backend/internal/directory"
	chatHandler "github.com/echoself/backend/internal/handler/chat"
	profileHandler "github.com/echoself/backend/internal/handler/profile"
	settingsHandler "github.com/echoself/backend/internal/handler/settings"
	middlewarePkg "github.com/echoself/backend/internal/middleware"
	chatService "github.com/echoself/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(profiles *directory.Directory, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		profileHandler.New(profiles).RegisterRoutes(api)
		chatHandler.New(chatSvc).RegisterRoutes(api)
		settingsHandler.New(profiles).RegisterRoutes(api)
	})

	return r
}
