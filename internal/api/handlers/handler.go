// handler.go — основной обработчик API Filmorate.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	apierrors "github.com/bigkaa/filmorate/internal/api/errors"
	"github.com/bigkaa/filmorate/internal/domain/validation"
	"github.com/bigkaa/filmorate/internal/service"
)

// APIHandler — основной обработчик API Filmorate.
type APIHandler struct {
	health         *HealthHandler
	films          *service.FilmService
	users          *service.UserService
	catalogs       *service.CatalogService
	popularDefault int
	logger         *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// popularDefault — размер выдачи /films/popular без параметра count.
func NewAPIHandler(
	health *HealthHandler,
	films *service.FilmService,
	users *service.UserService,
	catalogs *service.CatalogService,
	popularDefault int,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:         health,
		films:          films,
		users:          users,
		catalogs:       catalogs,
		popularDefault: popularDefault,
		logger:         logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса. При ошибке пишет 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return false
	}
	return true
}

// pathID читает положительный int64 параметр пути. При ошибке пишет 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apierrors.ValidationError(w, "Некорректный идентификатор "+name+": "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}

// writeServiceError переводит ошибку сервисного слоя в HTTP-ответ.
// Детали внутренних ошибок попадают только в лог.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		var verr *validation.Error
		if errors.As(err, &verr) {
			fields := make([]apierrors.FieldDetail, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, apierrors.FieldDetail{Field: f.Field, Message: f.Message})
			}
			apierrors.ValidationFields(w, err.Error(), fields)
			return
		}
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidOperation):
		apierrors.InvalidOperation(w, err.Error())
	default:
		h.logger.Error("Внутренняя ошибка",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
	}
}
