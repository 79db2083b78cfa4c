package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/vocabquiz/backend/internal/domain/quiz"
	"github.com/vocabquiz/backend/internal/domain/result"
	"github.com/vocabquiz/backend/internal/id"
	"github.com/vocabquiz/backend/internal/service"
	"github.com/vocabquiz/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuizRequest struct {
	BankID           string `json:"bank_id" validate:"required" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	MaxQuestions     *int   `json:"max_questions,omitempty" validate:"omitempty,min=1" example:"10"`
	TimeLimitSeconds *int   `json:"time_limit_seconds,omitempty" validate:"omitempty,min=1" example:"300"`
}

type CreateReviewRequest struct {
	StudentName string `json:"student_name" validate:"required" example:"Bob"`
}

type AnswerRequest struct {
	QuestionID    int `json:"question_id" example:"7"`
	SelectedIndex int `json:"selected_index" validate:"min=0,max=3" example:"2"`
}

type CompleteQuizRequest struct {
	StudentName      string          `json:"student_name,omitempty" example:"Bob"`
	ClassName        string          `json:"class_name,omitempty" example:"A1"`
	Answers          []AnswerRequest `json:"answers" validate:"dive"`
	TimeTakenSeconds int             `json:"time_taken_seconds" validate:"min=0" example:"95"`
}

// QuestionResponse hides the correct index until the quiz is completed.
type QuestionResponse struct {
	ID                 int      `json:"id" example:"7"`
	Word               string   `json:"word" example:"orbit"`
	Options            []string `json:"options"`
	CorrectAnswerIndex *int     `json:"correct_answer_index,omitempty" example:"2"`
	CorrectAnswer      string   `json:"correct_answer,omitempty" example:"the path of a body around a star"`
}

type QuizResponse struct {
	ID               string             `json:"id" example:"9b2c4c1e-3f0d-4d2a-9e55-0c7c0f1d2a11"`
	BankID           string             `json:"bank_id,omitempty" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	StudentName      string             `json:"student_name,omitempty" example:"Bob"`
	Review           bool               `json:"review" example:"false"`
	TimeLimitSeconds *int               `json:"time_limit_seconds,omitempty" example:"300"`
	CreatedAt        string             `json:"created_at" example:"2024-05-01T09:30:00Z"`
	CompletedAt      *string            `json:"completed_at,omitempty"`
	Questions        []QuestionResponse `json:"questions"`
}

type ResultResponse struct {
	ID                 string             `json:"id" example:"5d3c2b1a-0000-4000-8000-000000000001"`
	QuizID             string             `json:"quiz_id" example:"9b2c4c1e-3f0d-4d2a-9e55-0c7c0f1d2a11"`
	StudentName        string             `json:"student_name" example:"Bob"`
	ClassName          string             `json:"class_name" example:"A1"`
	Date               string             `json:"date" example:"2024-05-01"`
	Score              int                `json:"score" example:"8"`
	TotalQuestions     int                `json:"total_questions" example:"10"`
	Percentage         int                `json:"percentage" example:"80"`
	TimeTakenSeconds   int                `json:"time_taken_seconds" example:"95"`
	Timestamp          string             `json:"timestamp" example:"2024-05-01T09:31:35Z"`
	Review             bool               `json:"review" example:"false"`
	IncorrectQuestions []QuestionResponse `json:"incorrect_questions"`
}

func toQuestionResponses(qs []quiz.Question, reveal bool) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		resp := QuestionResponse{ID: q.ID, Word: q.Word, Options: append([]string(nil), q.Options...)}
		if reveal {
			idx := q.CorrectAnswerIndex
			resp.CorrectAnswerIndex = &idx
			resp.CorrectAnswer = q.CorrectAnswer()
		}
		out = append(out, resp)
	}
	return out
}

func toQuizResponse(q *quiz.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:          q.ID,
		BankID:      q.BankID,
		StudentName: q.StudentName,
		Review:      q.Review,
		CreatedAt:   q.CreatedAt.UTC().Format(time.RFC3339),
		Questions:   toQuestionResponses(q.Questions, q.Completed()),
	}
	if q.TimeLimit != nil {
		secs := int(q.TimeLimit.Seconds())
		resp.TimeLimitSeconds = &secs
	}
	if q.CompletedAt != nil {
		s := q.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

func toResultResponse(r result.QuizResult) ResultResponse {
	return ResultResponse{
		ID:                 r.ID,
		QuizID:             r.QuizID,
		StudentName:        r.StudentName,
		ClassName:          r.ClassName,
		Date:               r.Date,
		Score:              r.Score,
		TotalQuestions:     r.TotalQuestions,
		Percentage:         r.Percentage(),
		TimeTakenSeconds:   r.TimeTakenSeconds,
		Timestamp:          r.Timestamp.UTC().Format(time.RFC3339),
		Review:             r.Review,
		IncorrectQuestions: toQuestionResponses(r.IncorrectQuestions, true),
	}
}

// handleQuizError maps quiz lifecycle errors to HTTP responses.
func (h *Handler) handleQuizError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNotFound):
		return h.handleStoreError(w, err, "quiz")
	case errors.Is(err, quiz.ErrNotEnoughEntries):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNothingToReview), errors.Is(err, service.ErrQuizCompleted):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStudentRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("quiz error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuiz godoc
// @Summary      Start a quiz
// @Description  Builds a multiple-choice quiz from a word bank.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        body  body      CreateQuizRequest  true  "Quiz options"
// @Success      201   {object}  QuizResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse  "bank not found"
// @Failure      422   {object}  ErrorResponse  "bank too small"
// @Failure      500   {object}  ErrorResponse
// @Router       /quizzes [post]
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !id.Valid(req.BankID) {
		respondError(w, http.StatusNotFound, "bank not found")
		return
	}

	cfg := quiz.DefaultConfig()
	cfg.MaxQuestions = req.MaxQuestions
	if req.TimeLimitSeconds != nil {
		d := time.Duration(*req.TimeLimitSeconds) * time.Second
		cfg.TimeLimit = &d
	}

	q, err := h.quizzes.CreateQuiz(r.Context(), req.BankID, cfg)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "bank not found")
		return
	}
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusCreated, toQuizResponse(q))
}

// createReview godoc
// @Summary      Start a review quiz
// @Description  Builds a quiz from the words the student still has outstanding.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        body  body      CreateReviewRequest  true  "Student"
// @Success      201   {object}  QuizResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse  "nothing to review"
// @Failure      500   {object}  ErrorResponse
// @Router       /quizzes/review [post]
func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q, err := h.quizzes.CreateReview(r.Context(), req.StudentName)
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusCreated, toQuizResponse(q))
}

// getQuiz godoc
// @Summary      Get a quiz
// @Tags         Quizzes
// @Produce      json
// @Param        quizID  path      string  true  "Quiz ID"
// @Success      200     {object}  QuizResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /quizzes/{quizID} [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "quizID", "quiz")
	if !ok {
		return
	}
	q, err := h.quizzes.GetQuiz(r.Context(), quizID)
	if h.handleStoreError(w, err, "quiz") {
		return
	}
	respondJSON(w, http.StatusOK, toQuizResponse(q))
}

// completeQuiz godoc
// @Summary      Submit a quiz
// @Description  Grades the answers, stores the result and updates the student's mistake ledger.
// @Description  Review quizzes always count for the student they were built for.
// @Tags         Quizzes
// @Accept       json
// @Produce      json
// @Param        quizID  path      string               true  "Quiz ID"
// @Param        body    body      CompleteQuizRequest  true  "Answer sheet"
// @Success      200     {object}  ResultResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      409     {object}  ErrorResponse  "already completed"
// @Failure      500     {object}  ErrorResponse
// @Router       /quizzes/{quizID}/complete [post]
func (h *Handler) completeQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(w, r, "quizID", "quiz")
	if !ok {
		return
	}
	var req CompleteQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := make([]quiz.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, quiz.Answer{QuestionID: a.QuestionID, SelectedIndex: a.SelectedIndex})
	}

	res, err := h.quizzes.Complete(r.Context(), service.CompleteRequest{
		QuizID:           quizID,
		StudentName:      req.StudentName,
		ClassName:        req.ClassName,
		Answers:          answers,
		TimeTakenSeconds: req.TimeTakenSeconds,
	})
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toResultResponse(res))
}
