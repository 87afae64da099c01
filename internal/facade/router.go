package facade

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silexa/boardcore/internal/collab"
	"github.com/silexa/boardcore/internal/xlog"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router assembles the chi mux every operation spec.md §4.6 names
// mounts onto, directly adapted from the teacher's dashboard router.
func (s *Service) Router(logger xlog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Route("/apps/{app_id}/boards", func(r chi.Router) {
		r.Get("/", s.GetOpenBoards)
		r.Post("/", s.UpsertBoard)
		r.Route("/{board_id}", func(r chi.Router) {
			r.Get("/", s.GetBoard)
			r.Delete("/", s.DeleteBoard)
			r.Post("/close", s.CloseBoard)
			r.Post("/commands", s.ApplyCommand)
			r.Get("/settings", s.GetBoardSettings)
			r.Get("/versions", s.GetBoardVersions)
			r.Post("/versions", s.CreateBoardVersion)
			r.Post("/prerun", s.PrerunBoard)
			r.Post("/execute", s.ExecuteBoard)
		})
	})

	r.Get("/apps/{app_id}/catalog", s.GetCatalog)

	r.Route("/apps/{app_id}/events", func(r chi.Router) {
		r.Get("/", s.GetEvents)
		r.Post("/", s.UpsertEvent)
		r.Post("/validate", s.ValidateEvent)
		r.Route("/{event_id}", func(r chi.Router) {
			r.Get("/", s.GetEvent)
			r.Delete("/", s.DeleteEvent)
			r.Get("/versions", s.GetEventVersions)
			r.Post("/prerun", s.PrerunEvent)
			r.Post("/execute", s.ExecuteEvent)
			r.Post("/feedback", s.UpsertEventFeedback)
		})
	})

	r.Route("/apps/{app_id}/runs/{run_id}", func(r chi.Router) {
		r.Get("/", s.GetRunStatus)
		r.Post("/cancel", s.CancelExecution)
		r.Get("/active", s.IsEventSinkActive)
	})

	collabHandlers := collab.NewHandlers(s.Hub, s.Keys, logger)
	r.Route("/apps/{app_id}/boards/{board_id}/realtime", func(r chi.Router) {
		r.Post("/access", collabHandlers.GetRealtimeAccess)
		r.Get("/jwks", collabHandlers.GetRealtimeJwks)
		r.Get("/ws", collabHandlers.ServeRoom)
	})

	return r
}
