package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/marketscout/intel-monitor/internal/auth"
	"github.com/marketscout/intel-monitor/internal/config"
)

// SetupRoutes configures the router: public health and auth endpoints, the
// session-protected /api group, and the action-discriminator functions
// endpoint.
func SetupRoutes(h *Handlers, authManager *auth.Manager, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	origins := corsCfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	// Credentials must be allowed for the session cookie to travel with SPA
	// requests.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	if authManager != nil {
		r.Get("/auth/login", authManager.HandleLogin)
		r.Get("/auth/callback", authManager.HandleCallback)
		r.Get("/auth/logout", authManager.HandleLogout)
		r.Post("/auth/logout", authManager.HandleLogout)
		r.Get("/auth/user", authManager.HandleUserInfo)
	}

	r.Route("/api", func(r chi.Router) {
		if authManager != nil {
			r.Use(authManager.RequireAuth)
		}

		r.Route("/competitors", func(r chi.Router) {
			r.Get("/", h.ListCompetitors)
			r.Post("/", h.CreateCompetitor)
			r.Get("/{id}", h.GetCompetitor)
			r.Put("/{id}", h.UpdateCompetitor)
			r.Delete("/{id}", h.DeleteCompetitor)
			r.Post("/{id}/refresh", h.RefreshCompetitor)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", h.ListRecommendations)
			r.Post("/", h.CreateRecommendation)
			r.Get("/{id}", h.GetRecommendation)
			r.Delete("/{id}", h.DeleteRecommendation)
			r.Post("/{id}/deploy", h.DeployRecommendation)
			r.Post("/{id}/dismiss", h.DismissRecommendation)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Get("/unread", h.ListUnreadAlerts)
			r.Post("/{id}/read", h.MarkAlertRead)
		})

		r.Route("/crm", func(r chi.Router) {
			r.Get("/leads", h.ListLeads)
			r.Post("/leads", h.CreateLead)
			r.Get("/leads/{id}", h.GetLead)
			r.Put("/leads/{id}", h.UpdateLead)
			r.Delete("/leads/{id}", h.DeleteLead)

			r.Get("/tasks", h.ListTasks)
			r.Post("/tasks", h.CreateTask)
			r.Post("/tasks/{id}/complete", h.CompleteTask)
			r.Delete("/tasks/{id}", h.DeleteTask)

			r.Get("/email-campaigns", h.ListEmailCampaigns)
			r.Post("/email-campaigns", h.CreateEmailCampaign)
			r.Post("/email-campaigns/{id}/schedule", h.ScheduleEmailCampaign)
			r.Delete("/email-campaigns/{id}", h.DeleteEmailCampaign)
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", h.ListTrash)
			r.Post("/restore", h.RestoreFromTrash)
			r.Post("/purge", h.PurgeFromTrash)
		})

		r.Get("/analytics/dashboard", h.GetDashboard)
		r.Get("/analytics/score", h.GetScore)
		r.Get("/activity", h.GetActivity)
		r.Post("/assistant/chat", h.AssistantChat)
		r.Get("/feed", h.GetFeed)
	})

	// Serverless-style action endpoint. Preflight is answered by the CORS
	// middleware above; the handler only sees POST.
	r.Post("/functions/intel", h.HandleIntelFunction)
	r.Options("/functions/intel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
