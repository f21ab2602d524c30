package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pod-service/internal/domain"
	"pod-service/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User, passwordHash string) error {
	return r.db.WithContext(ctx).Create(user.FromDomain(u, passwordHash)).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByUsername 登录用，顺带返回密码哈希
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, string, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return m.ToDomain(), m.PasswordHash, nil
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int, withDeleted bool) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&user.UserModel{})
	if withDeleted {
		tx = tx.Unscoped()
	}
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []user.UserModel
	if err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, total, nil
}

func (r *UserRepo) SetRole(ctx context.Context, id, role string) error {
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete 封禁即软删，登录与鉴权都会查不到
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&user.UserModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
