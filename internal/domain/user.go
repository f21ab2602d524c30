package domain

import (
	"context"
	"time"
)

// 角色只有三档，审批权限见 CanApprove
const (
	RoleWorker  = "worker"
	RoleForeman = "foreman"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleWorker || role == RoleForeman || role == RoleAdmin
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CanApprove 审批权限的唯一判定入口。
// 前端置灰、handler 守卫和仓储层条件更新都引用这里，避免角色字符串散落各处。
func CanApprove(role string) bool {
	return role == RoleForeman || role == RoleAdmin
}

type UserRepository interface {
	Create(ctx context.Context, u *User, passwordHash string) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, string, error)
	List(ctx context.Context, q string, offset, limit int, withDeleted bool) ([]User, int64, error)
	SetRole(ctx context.Context, id, role string) error
	SoftDelete(ctx context.Context, id string) error
}
