package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vocabquiz/backend/internal/auth"
	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/result"
)

// ── Request / Response types ────────────────────────────────────────────────

type LoginRequest struct {
	Password string `json:"password" validate:"required" example:"correct horse battery staple"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at" example:"2024-05-01T21:30:00Z"`
}

type StudentSummaryResponse struct {
	StudentName    string `json:"student_name" example:"Bob"`
	ClassName      string `json:"class_name" example:"A1"`
	QuizzesTaken   int    `json:"quizzes_taken" example:"4"`
	AveragePercent int    `json:"average_percent" example:"72"`
	BestPercent    int    `json:"best_percent" example:"90"`
	LastQuizDate   string `json:"last_quiz_date,omitempty" example:"2024-05-01"`
	Outstanding    int    `json:"outstanding_words" example:"3"`
}

type MissedWordResponse struct {
	Question       QuestionResponse `json:"question"`
	WrongCount     int              `json:"wrong_count" example:"2"`
	LastMissedDate string           `json:"last_missed_date" example:"2024-05-01T09:31:35Z"`
}

type LedgerResponse struct {
	StudentName string               `json:"student_name" example:"Bob"`
	Records     []MissedWordResponse `json:"records"`
}

func toLedgerResponse(key string, records []ledger.MissedWordRecord) LedgerResponse {
	resp := LedgerResponse{StudentName: key, Records: make([]MissedWordResponse, 0, len(records))}
	for _, rec := range records {
		idx := rec.Question.CorrectAnswerIndex
		resp.Records = append(resp.Records, MissedWordResponse{
			Question: QuestionResponse{
				ID:                 rec.Question.ID,
				Word:               rec.Question.Word,
				Options:            append([]string(nil), rec.Question.Options...),
				CorrectAnswerIndex: &idx,
				CorrectAnswer:      rec.Question.CorrectAnswer(),
			},
			WrongCount:     rec.WrongCount,
			LastMissedDate: rec.LastMissedDate.UTC().Format(time.RFC3339),
		})
	}
	return resp
}

func toResultResponses(results []result.QuizResult) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toResultResponse(r))
	}
	return out
}

// ── Handlers ────────────────────────────────────────────────────────────────

// login godoc
// @Summary      Teacher login
// @Description  Exchanges the teacher password for a bearer token.
// @Tags         Teacher
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /teacher/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, expires, err := h.auth.Login(req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

// listStudents godoc
// @Summary      Student overview
// @Description  Per-student quiz statistics and outstanding word counts.
// @Tags         Teacher
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   StudentSummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /teacher/students [get]
func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.dashboard.Students(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize students", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load students")
		return
	}

	resp := make([]StudentSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, StudentSummaryResponse{
			StudentName:    s.StudentName,
			ClassName:      s.ClassName,
			QuizzesTaken:   s.QuizzesTaken,
			AveragePercent: s.AveragePercent,
			BestPercent:    s.BestPercent,
			LastQuizDate:   s.LastQuizDate,
			Outstanding:    s.Outstanding,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// studentResults godoc
// @Summary      Results of one student
// @Tags         Teacher
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Student name (case-insensitive)"
// @Success      200   {array}   ResultResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /teacher/students/{name}/results [get]
func (h *Handler) studentResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.dashboard.StudentResults(r.Context(), r.PathValue("name"))
	if err != nil {
		h.logger.Error("failed to load results", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	respondJSON(w, http.StatusOK, toResultResponses(results))
}

// studentLedger godoc
// @Summary      Mistake ledger of one student
// @Tags         Teacher
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Student name (case-insensitive)"
// @Success      200   {object}  LedgerResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /teacher/students/{name}/ledger [get]
func (h *Handler) studentLedger(w http.ResponseWriter, r *http.Request) {
	key, records, ok := h.dashboard.StudentLedger(r.PathValue("name"))
	if !ok {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	respondJSON(w, http.StatusOK, toLedgerResponse(key, records))
}

// listLedgers godoc
// @Summary      Whole mistake ledger
// @Description  Every student's outstanding words, ordered by student.
// @Tags         Teacher
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   LedgerResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /teacher/ledger [get]
func (h *Handler) listLedgers(w http.ResponseWriter, r *http.Request) {
	all := h.dashboard.Ledgers()
	resp := make([]LedgerResponse, 0, len(all))
	for _, s := range all {
		resp = append(resp, toLedgerResponse(s.Key, s.Records))
	}
	respondJSON(w, http.StatusOK, resp)
}

// listResults godoc
// @Summary      All results
// @Description  Every stored quiz result in the order it was taken.
// @Tags         Teacher
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ResultResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /teacher/results [get]
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.dashboard.Results(r.Context())
	if err != nil {
		h.logger.Error("failed to load results", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	respondJSON(w, http.StatusOK, toResultResponses(results))
}

func studentNameFromPath(r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.PathValue("name"))
	return name, name != ""
}
