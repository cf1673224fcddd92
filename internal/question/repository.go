package question

import (
	"log"

	"trivia-arena/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindRandom samples up to count questions matching the filters, options
// preloaded. A nil categoryID or MIXED difficulty disables that filter.
// RANDOM() holds for both postgres and sqlite.
func (r *Repository) FindRandom(categoryID *uint, difficulty models.Difficulty, count int) ([]models.Question, error) {
	query := r.db.Preload("Options")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if difficulty != models.DifficultyMixed {
		query = query.Where("difficulty = ?", difficulty)
	}

	var questions []models.Question
	err := query.Order("RANDOM()").Limit(count).Find(&questions).Error
	if err != nil {
		log.Printf("Error sampling questions: %v", err)
		return nil, err
	}
	return questions, nil
}

func (r *Repository) FindByID(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.Preload("Options").First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *Repository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *Repository) CountByFilter(categoryID *uint, difficulty models.Difficulty) (int64, error) {
	query := r.db.Model(&models.Question{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if difficulty != models.DifficultyMixed {
		query = query.Where("difficulty = ?", difficulty)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *Repository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *Repository) FindCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
