package api

import (
	"net/http"
	"strconv"

	"github.com/vocabquiz/backend/internal/domain/wordbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateBankRequest struct {
	Name      string            `json:"name" validate:"required" example:"Unit 3: Space"`
	ClassName string            `json:"class_name,omitempty" example:"A1"`
	Entries   []AddEntryRequest `json:"entries,omitempty" validate:"dive"`
}

type AddEntryRequest struct {
	Word    string `json:"word" validate:"required" example:"orbit"`
	Meaning string `json:"meaning" validate:"required" example:"the path of a body around a star"`
}

type BankResponse struct {
	ID         string `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Name       string `json:"name" example:"Unit 3: Space"`
	ClassName  string `json:"class_name" example:"A1"`
	EntryCount int    `json:"entry_count" example:"20"`
}

type GetBankResponse struct {
	ID        string          `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Name      string          `json:"name" example:"Unit 3: Space"`
	ClassName string          `json:"class_name" example:"A1"`
	Entries   []EntryResponse `json:"entries"`
}

type EntryResponse struct {
	ID      int    `json:"id" example:"7"`
	Word    string `json:"word" example:"orbit"`
	Meaning string `json:"meaning" example:"the path of a body around a star"`
}

func toBankResponse(b wordbank.Summary) BankResponse {
	return BankResponse{
		ID:         b.ID,
		Name:       b.Name,
		ClassName:  b.ClassName,
		EntryCount: b.EntryCount,
	}
}

func toGetBankResponse(b *wordbank.WordBank) GetBankResponse {
	entries := make([]EntryResponse, 0, len(b.Entries))
	for _, e := range b.Entries {
		entries = append(entries, toEntryResponse(e))
	}
	return GetBankResponse{
		ID:        b.ID,
		Name:      b.Name,
		ClassName: b.ClassName,
		Entries:   entries,
	}
}

func toEntryResponse(e wordbank.WordEntry) EntryResponse {
	return EntryResponse{ID: e.ID, Word: e.Word, Meaning: e.Meaning}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createBank godoc
// @Summary      Create a word bank
// @Description  Create a new word bank, optionally with its first entries.
// @Tags         Banks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBankRequest  true  "Bank to create"
// @Success      201   {object}  GetBankResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /banks [post]
func (h *Handler) createBank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateBankRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	bank := wordbank.New(req.Name, req.ClassName)
	for _, e := range req.Entries {
		if _, err := bank.AddEntry(e.Word, e.Meaning); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.store.SaveBank(ctx, bank); err != nil {
		h.logger.Error("failed to save bank", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save bank")
		return
	}

	respondJSON(w, http.StatusCreated, toGetBankResponse(bank))
}

// listBanks godoc
// @Summary      List word banks
// @Tags         Banks
// @Produce      json
// @Success      200  {array}   BankResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /banks [get]
func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.store.ListBanks(r.Context())
	if err != nil {
		h.logger.Error("failed to list banks", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list banks")
		return
	}

	resp := make([]BankResponse, 0, len(banks))
	for _, b := range banks {
		resp = append(resp, toBankResponse(b))
	}
	respondJSON(w, http.StatusOK, resp)
}

// getBank godoc
// @Summary      Get a word bank
// @Description  Returns a word bank with all its entries.
// @Tags         Banks
// @Produce      json
// @Param        bankID  path      string  true  "Bank ID"
// @Success      200     {object}  GetBankResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /banks/{bankID} [get]
func (h *Handler) getBank(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	bank, err := h.store.GetBank(r.Context(), bankID)
	if h.handleStoreError(w, err, "bank") {
		return
	}
	respondJSON(w, http.StatusOK, toGetBankResponse(bank))
}

// deleteBank godoc
// @Summary      Delete a word bank
// @Tags         Banks
// @Param        bankID  path  string  true  "Bank ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /banks/{bankID} [delete]
func (h *Handler) deleteBank(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	err := h.store.DeleteBank(r.Context(), bankID)
	if h.handleStoreError(w, err, "bank") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addEntry godoc
// @Summary      Add a word to a bank
// @Tags         Banks
// @Accept       json
// @Produce      json
// @Param        bankID  path      string           true  "Bank ID"
// @Param        body    body      AddEntryRequest  true  "Word to add"
// @Success      201     {object}  EntryResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /banks/{bankID}/entries [post]
func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	var req AddEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := wordbank.NewEntry(req.Word, req.Meaning)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.store.AddEntry(r.Context(), bankID, entry)
	if h.handleStoreError(w, err, "bank") {
		return
	}
	respondJSON(w, http.StatusCreated, toEntryResponse(saved))
}

// deleteEntry godoc
// @Summary      Remove a word from a bank
// @Tags         Banks
// @Param        bankID   path  string   true  "Bank ID"
// @Param        entryID  path  integer  true  "Entry ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /banks/{bankID}/entries/{entryID} [delete]
func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	bankID, ok := pathID(w, r, "bankID", "bank")
	if !ok {
		return
	}
	entryID, err := strconv.Atoi(r.PathValue("entryID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	err = h.store.DeleteEntry(r.Context(), bankID, entryID)
	if h.handleStoreError(w, err, "entry") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
