package api

import (
	"net/http"
	"time"

	"github.com/vocabquiz/backend/internal/domain/wordbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type ExportEntry struct {
	Word    string `json:"word" validate:"required" example:"orbit"`
	Meaning string `json:"meaning" validate:"required" example:"the path of a body around a star"`
}

type ExportBank struct {
	Version    string        `json:"version" example:"1.0"`
	ExportedAt string        `json:"exported_at" example:"2024-05-01T09:30:00Z"`
	Name       string        `json:"name" example:"Unit 3: Space"`
	ClassName  string        `json:"class_name" example:"A1"`
	Entries    []ExportEntry `json:"entries"`
}

type ImportRequest struct {
	Entries []ExportEntry `json:"entries" validate:"required,min=1,dive"`
}

type ImportResult struct {
	EntriesCreated int             `json:"entries_created" example:"12"`
	Entries        []EntryResponse `json:"entries"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportBank godoc
// @Summary      Export a word bank
// @Description  Returns the bank's words in the same shape the import endpoint accepts.
// @Tags         Banks
// @Produce      json
// @Param        bankID  path      string  true  "Bank ID"
// @Success      200     {object}  ExportBank
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /banks/{bankID}/export [get]
func (h *Handler) exportBank(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	bank, err := h.store.GetBank(r.Context(), bankID)
	if h.handleStoreError(w, err, "bank") {
		return
	}

	export := ExportBank{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Name:       bank.Name,
		ClassName:  bank.ClassName,
		Entries:    make([]ExportEntry, 0, len(bank.Entries)),
	}
	for _, e := range bank.Entries {
		export.Entries = append(export.Entries, ExportEntry{Word: e.Word, Meaning: e.Meaning})
	}

	w.Header().Set("Content-Disposition", `attachment; filename="word-bank.json"`)
	respondJSON(w, http.StatusOK, export)
}

// importEntries godoc
// @Summary      Bulk import words
// @Description  Appends a list of words to a bank. Either all words are added or none.
// @Tags         Banks
// @Accept       json
// @Produce      json
// @Param        bankID  path      string         true  "Bank ID"
// @Param        body    body      ImportRequest  true  "Words to import"
// @Success      201     {object}  ImportResult
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /banks/{bankID}/import [post]
func (h *Handler) importEntries(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	var req ImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entries := make([]wordbank.WordEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entry, err := wordbank.NewEntry(e.Word, e.Meaning)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		entries = append(entries, entry)
	}

	saved, err := h.store.AddEntries(r.Context(), bankID, entries)
	if h.handleStoreError(w, err, "bank") {
		return
	}

	resp := ImportResult{EntriesCreated: len(saved), Entries: make([]EntryResponse, 0, len(saved))}
	for _, e := range saved {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	respondJSON(w, http.StatusCreated, resp)
}
