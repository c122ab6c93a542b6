package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) listColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.store.ListColumns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "COLUMNS_FETCH_ERROR", err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CARDS_FETCH_ERROR", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	var card models.Card
	if err := decodeBody(w, r, &card); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err)
		return
	}
	if err := models.ValidateCard(card); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err)
		return
	}
	if err := s.store.CreateCard(r.Context(), card); err != nil {
		writeError(w, http.StatusInternalServerError, "CARD_CREATE_ERROR", err)
		return
	}
	s.metrics.IncCardsCreated()
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	id := types.ItemID(mux.Vars(r)["id"])
	if err := s.store.DeleteCard(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "CARD_DELETE_ERROR", err)
		return
	}
	s.metrics.IncCardsDeleted()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCardsOrder(w http.ResponseWriter, r *http.Request) {
	rel, err := s.store.GetCardsOrder(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ORDER_FETCH_ERROR", err)
		return
	}
	if cols, err := s.columnIDs(r.Context()); err == nil {
		if err := rel.Validate(cols); err != nil {
			slog.Warn("serving invalid cards order", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, rel)
}

func (s *Server) patchCardsOrder(w http.ResponseWriter, r *http.Request) {
	var patch order.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err)
		return
	}
	if _, bad := patch[types.NoItem]; bad {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", errors.New("patch key cannot be empty"))
		return
	}
	for k, v := range patch {
		if k == v {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Errorf("patch would make %s its own successor", k))
			return
		}
	}

	s.orderMu.Lock()
	defer s.orderMu.Unlock()

	if err := s.checkPatch(r.Context(), patch); err != nil {
		if errors.Is(err, errOrderConflict) {
			writeError(w, http.StatusConflict, "ORDER_CONFLICT", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "ORDER_FETCH_ERROR", err)
		return
	}
	if err := s.store.PatchCardsOrder(r.Context(), patch); err != nil {
		writeError(w, http.StatusInternalServerError, "ORDER_PATCH_ERROR", err)
		return
	}
	s.metrics.IncPatchesApplied()
	w.WriteHeader(http.StatusNoContent)
}

var errOrderConflict = errors.New("patch would corrupt the cards order")

// checkPatch rejects a patch that turns a valid relation into an invalid one.
// A relation that is already invalid accepts any patch so it can be repaired.
func (s *Server) checkPatch(ctx context.Context, patch order.Patch) error {
	cols, err := s.columnIDs(ctx)
	if err != nil {
		return err
	}
	rel, err := s.store.GetCardsOrder(ctx)
	if err != nil {
		return err
	}
	if err := rel.Validate(cols); err != nil {
		slog.Warn("cards order already invalid, accepting patch", "error", err)
		return nil
	}
	if err := rel.Apply(patch).Validate(cols); err != nil {
		return fmt.Errorf("%w: %w", errOrderConflict, err)
	}
	return nil
}

func (s *Server) columnIDs(ctx context.Context) ([]types.ItemID, error) {
	cols, err := s.store.ListColumns(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]types.ItemID, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.GetSnapshot())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: err.Error()})
}
