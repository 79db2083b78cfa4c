// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vocabquiz/backend/internal/auth"
	"github.com/vocabquiz/backend/internal/id"
	"github.com/vocabquiz/backend/internal/service"
	"github.com/vocabquiz/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	store     store.Store
	quizzes   *service.QuizService
	ledger    *service.LedgerService
	dashboard *service.DashboardService
	auth      *auth.Service
	logger    *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(
	s store.Store,
	quizzes *service.QuizService,
	ledger *service.LedgerService,
	dashboard *service.DashboardService,
	authSvc *auth.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		store:     s,
		quizzes:   quizzes,
		ledger:    ledger,
		dashboard: dashboard,
		auth:      authSvc,
		logger:    logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"bank not found"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs struct validation on it.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// pathID reads a generated ID from the path. Malformed IDs cannot exist in the
// store, so they are answered with a 404 straight away.
func pathID(w http.ResponseWriter, r *http.Request, name, entity string) (string, bool) {
	v := r.PathValue(name)
	if !id.Valid(v) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return "", false
	}
	return v, true
}
