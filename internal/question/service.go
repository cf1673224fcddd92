package question

import (
	"errors"
	"fmt"

	"trivia-arena/internal/models"

	"gorm.io/gorm"
)

// ErrNotEnoughQuestions reports an inventory shortfall: the bank cannot
// satisfy the requested sample size for the given filters.
var ErrNotEnoughQuestions = errors.New("not enough questions available")

// ErrNotFound reports a missing question or category.
var ErrNotFound = errors.New("question not found")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SampleQuestions returns exactly count random questions for the filters.
// A shortfall is a hard failure; callers never receive a partial set.
func (s *Service) SampleQuestions(categoryID *uint, difficulty models.Difficulty, count int) ([]models.Question, error) {
	questions, err := s.repo.FindRandom(categoryID, difficulty, count)
	if err != nil {
		return nil, err
	}
	if len(questions) < count {
		return nil, fmt.Errorf("%w: found %d, required %d", ErrNotEnoughQuestions, len(questions), count)
	}
	return questions, nil
}

// GetQuestion returns the question with its options including the grading
// data. Callers are responsible for projecting through Public() before
// anything reaches a player.
func (s *Service) GetQuestion(id uint) (*models.Question, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *Service) CreateQuestion(question *models.Question) error {
	if _, err := s.repo.FindCategoryByID(question.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, question.CategoryID)
		}
		return err
	}
	correct := 0
	for _, opt := range question.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("question must have exactly one correct option, got %d", correct)
	}
	return s.repo.Create(question)
}

func (s *Service) ListCategories() ([]models.Category, error) {
	return s.repo.ListCategories()
}
