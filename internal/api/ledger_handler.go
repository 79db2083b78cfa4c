package api

import (
	"net/http"
	"time"

	"github.com/vocabquiz/backend/internal/domain/ledger"
	"github.com/vocabquiz/backend/internal/domain/quiz"
)

type LedgerQuestion struct {
	ID                 int      `json:"id" example:"7"`
	Word               string   `json:"word" validate:"required" example:"orbit"`
	Options            []string `json:"options" validate:"len=4" example:"a,b,c,d"`
	CorrectAnswerIndex int      `json:"correct_answer_index" validate:"min=0,max=3" example:"2"`
}

type ReconcileRequest struct {
	Questions      []LedgerQuestion `json:"questions" validate:"dive"`
	WrongQuestions []LedgerQuestion `json:"wrong_questions" validate:"dive"`
	Review         bool             `json:"review" example:"false"`
}

func toQuestions(in []LedgerQuestion) []quiz.Question {
	out := make([]quiz.Question, 0, len(in))
	for _, q := range in {
		out = append(out, quiz.Question{
			ID:                 q.ID,
			Word:               q.Word,
			Options:            append([]string(nil), q.Options...),
			CorrectAnswerIndex: q.CorrectAnswerIndex,
		})
	}
	return out
}

// reconcileLedger godoc
// @Summary      Reconcile a graded quiz into the ledger
// @Description  For clients that grade locally. Normal quizzes add the wrong words;
// @Description  review quizzes take one count off every reviewed word answered correctly.
// @Tags         Ledger
// @Accept       json
// @Produce      json
// @Param        name  path      string            true  "Student name"
// @Param        body  body      ReconcileRequest  true  "Quiz outcome"
// @Success      200   {object}  LedgerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /students/{name}/ledger/reconcile [post]
func (h *Handler) reconcileLedger(w http.ResponseWriter, r *http.Request) {
	name, ok := studentNameFromPath(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "student name is required")
		return
	}

	var req ReconcileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	completion := ledger.Completion{
		StudentName: name,
		Questions:   toQuestions(req.Questions),
		Wrong:       toQuestions(req.WrongQuestions),
		Review:      req.Review,
	}

	key, err := h.ledger.Reconcile(r.Context(), completion, time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to reconcile ledger", "error", err, "student", name)
		respondError(w, http.StatusInternalServerError, "failed to save ledger")
		return
	}

	_, records := h.ledger.Records(key)
	respondJSON(w, http.StatusOK, toLedgerResponse(key, records))
}
