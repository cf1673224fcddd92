// Package leaderboard is a read model over completed play: users ranked by
// lifetime score, with a redis cache in front of the database query.
package leaderboard

import (
	"log"
	"time"

	"trivia-arena/internal/models"
	"trivia-arena/pkg/cache"

	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TopUsers returns the highest lifetime scores, ties broken by username so
// the ordering is stable.
func (r *Repository) TopUsers(limit int) ([]cache.Entry, error) {
	var entries []cache.Entry
	err := r.db.Model(&models.User{}).
		Select("username, total_score").
		Order("total_score DESC, username ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

func NewService(repo *Repository, c *cache.RedisCache) *Service {
	return &Service{repo: repo, cache: c}
}

// GetLeaderboard serves from the cache when warm, otherwise recomputes from
// the users table and repopulates it. Cache failures degrade to the
// database; they never fail the request.
func (s *Service) GetLeaderboard(limit int) ([]cache.Entry, error) {
	if warm, err := s.cache.Exists(); err == nil && warm {
		entries, err := s.cache.GetLeaderboard(int64(limit))
		if err == nil {
			return entries, nil
		}
		log.Printf("Leaderboard cache read failed, falling back to db: %v", err)
	}

	entries, err := s.repo.TopUsers(limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLeaderboard(entries, cacheTTL); err != nil {
		log.Printf("Failed to cache leaderboard: %v", err)
	}
	return entries, nil
}
