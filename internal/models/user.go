package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Username   string         `json:"username" gorm:"unique;not null"`
	Email      string         `json:"email" gorm:"unique;not null"`
	Password   string         `json:"-" gorm:"not null"`
	XP         int            `json:"xp" gorm:"column:xp;default:0"`
	Level      int            `json:"level" gorm:"default:1"`
	TotalScore int            `json:"total_score" gorm:"default:0"`
}

type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Name      string         `json:"name" gorm:"unique;not null"`
}
