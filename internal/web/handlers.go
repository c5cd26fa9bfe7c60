package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jaminalder/tictac/internal/app"
	"github.com/jaminalder/tictac/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
}

func (h *handlers) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(renderTemplate(h.tpl.page, "", data))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.play(w, r, "")
}

func (h *handlers) game(w http.ResponseWriter, r *http.Request) {
	h.play(w, r, chi.URLParam(r, "state"))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request, state string) {
	a, err := h.svc.Analyze(state)
	if err != nil {
		status, msg := errorStatus(err)
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("state", state).Msg("rejected state")
		h.renderPage(w, status, pageData{Error: msg})
		return
	}
	h.renderPage(w, http.StatusOK, pageData{Game: a})
}

// errorStatus maps service errors to a status code and a message for the player.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrWrongLength):
		return http.StatusBadRequest, "State must be exactly 9 characters"
	case errors.Is(err, domain.ErrInvalidCharacter):
		return http.StatusBadRequest, "State may only contain x, o and -"
	case errors.Is(err, domain.ErrTurnOrder):
		return http.StatusBadRequest, "A player moved out of turn"
	case errors.Is(err, app.ErrImpossibleState):
		return http.StatusUnprocessableEntity, "Both players cannot have won"
	default:
		return http.StatusInternalServerError, "Evaluation failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) evalJSON(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Analyze(chi.URLParam(r, "state"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handlers) movesJSON(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.Moves(chi.URLParam(r, "state"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"moves": moves})
}

func (h *handlers) cacheJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CacheStats())
}

type wsRequest struct {
	State string `json:"state"`
}

type wsResponse struct {
	*app.Analysis
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws answers every {"state": ...} message with the analysis of that state.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	logger := zerolog.Ctx(r.Context())

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		var resp wsResponse
		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			resp.Error = "invalid payload"
		} else if a, err := h.svc.Analyze(req.State); err != nil {
			_, resp.Error = errorStatus(err)
		} else {
			resp.Analysis = a
		}
		if err := conn.WriteJSON(resp); err != nil {
			logger.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}
