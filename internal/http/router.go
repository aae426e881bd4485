package httpserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/http/handlers"
	"github.com/stock-ahora/api-mod-semanal/internal/service/plan"
)

const APIBasePath = "/api/MODSemanal"
const HealthPath = "/api/v1" + "/health"

func NewRouter(svc plan.PlanService, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogger(logger), middleware.Recoverer)

	h := handlers.NewStatusHandler()
	planHandler := handlers.NewPlanHandler(svc, logger)

	initHealthRoutes(r, h)

	initPlanRoutes(r, planHandler)

	return r
}

func initHealthRoutes(r *chi.Mux, h *handlers.StatusHandler) {
	r.Get(HealthPath, h.Health)
}

func initPlanRoutes(r *chi.Mux, h *handlers.PlanHandler) {
	r.Route(APIBasePath, func(r chi.Router) {
		r.Post("/CreateWeeklyPlan", h.Create)
		r.Put("/UpdateWeeklyPlan/{weekNumber}", h.Update)
		r.Get("/Getall", h.List)
		r.Get("/GetByWeek/{weekNumber}", h.GetByWeek)
		r.Get("/GenerateWeeklyReport/{weekNumber}", h.GenerateReport)
	})
}
