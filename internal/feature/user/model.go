package user

import (
	"time"

	"gorm.io/gorm"

	"pod-service/internal/domain"
)

type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	FullName     string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;default:worker"`
	Active       bool   `gorm:"not null;default:true"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      m.Role,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func FromDomain(u *domain.User, passwordHash string) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: passwordHash,
		Role:         u.Role,
		Active:       u.Active,
	}
}
