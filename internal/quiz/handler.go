package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"trivia-arena/internal/models"
	"trivia-arena/internal/question"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type startGameRequest struct {
	CategoryID     *uint             `json:"categoryId"`
	Difficulty     models.Difficulty `json:"difficulty"`
	QuestionsCount int               `json:"questionsCount"`
	GameMode       models.GameMode   `json:"gameMode"`
	OpponentUserID *uint             `json:"opponentUserId"`
}

type submitAnswerRequest struct {
	QuestionID       uint `json:"questionId"`
	SelectedOptionID int  `json:"selectedOptionId"`
	TimeTaken        int  `json:"timeTaken"`
}

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.service.StartGame(userID, StartGameInput{
		CategoryID:     req.CategoryID,
		Difficulty:     req.Difficulty,
		QuestionsCount: req.QuestionsCount,
		GameMode:       req.GameMode,
		OpponentUserID: req.OpponentUserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId": session.ID,
		"status":    session.Status,
	})
}

func (h *Handler) GetActiveGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.service.GetActiveGame(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(session)
}

func (h *Handler) GetCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}

	current, err := h.service.GetCurrentQuestion(sessionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	// nil means every question is answered; the client should end the game.
	json.NewEncoder(w).Encode(current)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitAnswer(sessionID, userID, SubmitAnswerInput{
		QuestionID:       req.QuestionID,
		SelectedOptionID: req.SelectedOptionID,
		TimeTaken:        req.TimeTaken,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}

	result, err := h.service.EndGame(sessionID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) AbandonGame(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}

	if err := h.service.AbandonGame(sessionID, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionParams(w http.ResponseWriter, r *http.Request) (userID uint, sessionID uint, ok bool) {
	userID, authed := r.Context().Value("user_id").(uint)
	if !authed {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}
	raw := mux.Vars(r)["sessionId"]
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(parsed), true
}

func writeError(w http.ResponseWriter, err error) {
	var activeErr *ActiveSessionError
	if errors.As(err, &activeErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":           activeErr.Error(),
			"activeSessionId": activeErr.SessionID,
		})
		return
	}

	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, question.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, question.ErrNotEnoughQuestions):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrSessionNotActive),
		errors.Is(err, ErrAlreadyAnswered),
		errors.Is(err, ErrQuestionNotInSession),
		errors.Is(err, ErrAllQuestionsAnswered),
		errors.Is(err, ErrOpponentBusy),
		errors.Is(err, ErrSessionTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("Unhandled quiz error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
