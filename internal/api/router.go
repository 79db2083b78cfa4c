// internal/api/router.go
package api

import "net/http"

// RegisterRoutes wires every endpoint onto mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Word banks
	mux.HandleFunc("POST /banks", h.createBank)
	mux.HandleFunc("GET /banks", h.listBanks)
	mux.HandleFunc("GET /banks/{bankID}", h.getBank)
	mux.HandleFunc("DELETE /banks/{bankID}", h.deleteBank)
	mux.HandleFunc("POST /banks/{bankID}/entries", h.addEntry)
	mux.HandleFunc("DELETE /banks/{bankID}/entries/{entryID}", h.deleteEntry)
	mux.HandleFunc("POST /banks/{bankID}/import", h.importEntries)
	mux.HandleFunc("GET /banks/{bankID}/export", h.exportBank)

	// Quizzes
	mux.HandleFunc("POST /quizzes", h.createQuiz)
	mux.HandleFunc("POST /quizzes/review", h.createReview)
	mux.HandleFunc("GET /quizzes/{quizID}", h.getQuiz)
	mux.HandleFunc("POST /quizzes/{quizID}/complete", h.completeQuiz)

	// Ledger
	mux.HandleFunc("POST /students/{name}/ledger/reconcile", h.reconcileLedger)

	// Teacher
	mux.HandleFunc("POST /teacher/login", h.login)
	mux.HandleFunc("GET /teacher/students", h.requireTeacher(h.listStudents))
	mux.HandleFunc("GET /teacher/students/{name}/results", h.requireTeacher(h.studentResults))
	mux.HandleFunc("GET /teacher/students/{name}/ledger", h.requireTeacher(h.studentLedger))
	mux.HandleFunc("GET /teacher/results", h.requireTeacher(h.listResults))
	mux.HandleFunc("GET /teacher/ledger", h.requireTeacher(h.listLedgers))
}
