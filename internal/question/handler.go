package question

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-arena/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createQuestionRequest struct {
	CategoryID  uint              `json:"categoryId"`
	Difficulty  models.Difficulty `json:"difficulty"`
	Text        string            `json:"text"`
	Explanation string            `json:"explanation"`
	Points      int               `json:"points"`
	Options     []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
	} `json:"options"`
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Text == "" || !req.Difficulty.Valid() || req.Difficulty == models.DifficultyMixed {
		http.Error(w, "Question text and a concrete difficulty are required", http.StatusBadRequest)
		return
	}

	question := &models.Question{
		CategoryID:  req.CategoryID,
		Difficulty:  req.Difficulty,
		Text:        req.Text,
		Explanation: req.Explanation,
		Points:      req.Points,
	}
	for i, opt := range req.Options {
		question.Options = append(question.Options, models.QuestionOption{
			Text:        opt.Text,
			OptionOrder: i + 1,
			IsCorrect:   opt.IsCorrect,
		})
	}

	if err := h.service.CreateQuestion(question); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(question.Public())
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(categories)
}
