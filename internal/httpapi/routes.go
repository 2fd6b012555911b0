package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atarrant/uno-session-backend/internal/hub"
	"github.com/atarrant/uno-session-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger, outboxBuffer int) http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Post("/create_game", CreateGame(h, log))
	r.Post("/join_game", JoinGame(h, log))
	r.Post("/start_game", StartGame(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/admin_stats", AdminStats(h))
	r.Get("/lobby", ws.Handler(h, log, outboxBuffer))
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
