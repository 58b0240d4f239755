package staking

import (
	"errors"
	"log"
	"net/http"
	dto "staking_backend/internal/api/dto/staking"
	"staking_backend/internal/converter"
	"staking_backend/internal/engine"
	"staking_backend/internal/service"
	"staking_backend/pkg/req"
	"staking_backend/pkg/resp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type HandlerDeps struct {
	Serv service.StakingService
}

type Handler struct {
	serv service.StakingService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Start открывает новую сессию прогрессивных ставок
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.StartSessionRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.serv.StartSession(r.Context(), converter.ToStartSession(payload))
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToSessionResponse(session))
}

// Get возвращает текущее состояние сессии
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.serv.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
}

// Bet сообщает исход ставки и возвращает новое состояние сессии
func (h *Handler) Bet(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.BetRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	outcome, err := h.serv.PlaceBet(r.Context(), id, payload.Won)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBetResponse(outcome))
}

// Decide применяет решение игрока на паузе сессии
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.DecisionRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.serv.Decide(r.Context(), id, engine.Decision(payload.Decision))
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
}

// Summary возвращает сводку по сессии с историей ставок
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.serv.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSummaryResponse(result))
}

// History возвращает историю ставок сессии
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	records, err := h.serv.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(records))
}

// Presets возвращает каталог пресетов стратегий
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPresetResponses(h.serv.Presets()))
}

// Stats возвращает агрегаты по завершенным сессиям
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.Stats()))
}

// sessionID - ID сессии из пути запроса
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeError - маппинг ошибок сервиса на HTTP статусы
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrSessionStopped),
		errors.Is(err, service.ErrAwaitingDecision),
		errors.Is(err, service.ErrNoPendingDecision):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrUnknownDecision),
		errors.Is(err, engine.ErrInvalidSessionConfig),
		errors.Is(err, engine.ErrInvalidStrategy),
		errors.Is(err, engine.ErrUnknownPreset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Println("staking handler error:", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
