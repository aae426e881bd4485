package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/dto"
	"github.com/stock-ahora/api-mod-semanal/internal/service/plan"
	"github.com/stock-ahora/api-mod-semanal/internal/service/s3"
)

const (
	requestTimeout = 3 * time.Second
	reportTimeout  = 30 * time.Second
)

// prefijos de los mensajes 500 por operación
const (
	internalErrorPrefix = "Error interno del servidor: "
	readErrorPrefix     = "Error al obtener datos: "
	reportErrorPrefix   = "Error al generar el reporte: "
)

type PlanHandler struct {
	Service plan.PlanService
	Logger  *zap.Logger
}

func NewPlanHandler(svc plan.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{Service: svc, Logger: logger}
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request dto.WeeklyPlanDto
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.Service.Create(ctx, request)
	if err != nil {
		h.writeError(w, r, err, internalErrorPrefix)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	weekNumber, ok := weekParam(w, r)
	if !ok {
		return
	}

	var request dto.WeeklyPlanDto
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.Service.Update(ctx, weekNumber, request)
	if err != nil {
		h.writeError(w, r, err, internalErrorPrefix)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	plans, err := h.Service.List(ctx)
	if err != nil {
		h.writeError(w, r, err, readErrorPrefix)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) GetByWeek(w http.ResponseWriter, r *http.Request) {
	weekNumber, ok := weekParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.Service.GetByWeek(ctx, weekNumber)
	if err != nil {
		h.writeError(w, r, err, readErrorPrefix)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PlanHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	weekNumber, ok := weekParam(w, r)
	if !ok {
		return
	}

	// incluye la subida opcional a S3
	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	file, err := h.Service.GenerateReport(ctx, weekNumber)
	if err != nil {
		h.writeError(w, r, err, reportErrorPrefix)
		return
	}

	w.Header().Set("Content-Type", s3.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		h.Logger.Warn("No se pudo escribir el reporte", zap.Error(err))
	}
}

func weekParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "weekNumber")
	week, err := strconv.Atoi(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Número de semana inválido: "+raw)
		return 0, false
	}
	return week, true
}

// writeError responde con el status del error HTTP del servicio, o 500 con el
// prefijo de la operación para cualquier otro error.
func (h *PlanHandler) writeError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	if httperror.IsHTTPError(err) {
		writeJSONError(w, httperror.GetStatusCode(err), httperror.ToHTTPError(err).Error())
		return
	}

	h.Logger.Error("Error procesando la solicitud",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSONError(w, http.StatusInternalServerError, prefix+err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
