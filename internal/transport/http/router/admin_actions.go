package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pod-service/internal/domain"
	"pod-service/internal/repo"
	httpez "pod-service/internal/transport/http/ez"
	"pod-service/pkg/utils"
)

// MountAdminActions 用户管理接口集中在这里注册
func MountAdminActions(admin *gin.RouterGroup, d Deps) {
	ezAdmin := httpez.New(admin)

	// --- GET /admin/v1/users 用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 username/email/full_name 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	type listOut struct {
		Total int64         `json:"total"`
		Items []domain.User `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ezAdmin, d.DB, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			users := repo.NewUserRepo(tx)
			items, total, err := users.List(c, in.Q, in.Offset, in.Limit, in.WithDeleted)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			return listOut{Total: total, Items: items}, nil
		},
	})

	// --- POST /admin/v1/users 建号（管理员代开，可直接指定角色） ---
	type createIn struct {
		Username string `json:"username"  binding:"required,min=3,max=64"`
		Email    string `json:"email"     binding:"required,email"`
		Password string `json:"password"  binding:"required,min=6"`
		FullName string `json:"full_name" binding:"required,max=64"`
		Role     string `json:"role"      binding:"required"`
	}
	httpez.RegisterAction[createIn, *domain.User](ezAdmin, d.DB, httpez.Action[createIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *createIn) (*domain.User, error) {
			if !domain.ValidRole(in.Role) {
				return nil, httpez.BadRequest("invalid role")
			}
			u := &domain.User{
				ID:       utils.NewID(),
				Username: strings.TrimSpace(in.Username),
				Email:    strings.TrimSpace(in.Email),
				FullName: strings.TrimSpace(in.FullName),
				Role:     in.Role,
				Active:   true,
			}
			if err := repo.NewUserRepo(tx).Create(c, u, utils.HashPassword(in.Password)); err != nil {
				if isDupKey(err) {
					return nil, httpez.BadRequest("username or email already exists")
				}
				return nil, httpez.Internal("create user failed", err)
			}
			return u, nil
		},
	})

	// --- POST /admin/v1/users/:id/role 调整角色 ---
	type roleIn struct {
		Role string `json:"role" binding:"required"`
	}
	httpez.RegisterAction[roleIn, gin.H](ezAdmin, d.DB, httpez.Action[roleIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *roleIn) (gin.H, error) {
			if !domain.ValidRole(in.Role) {
				return nil, httpez.BadRequest("invalid role")
			}
			id := c.Param("id")
			if err := repo.NewUserRepo(tx).SetRole(c, id, in.Role); err != nil {
				return nil, err
			}
			if d.Cache != nil {
				d.Cache.Forget(c, identityKey(id)) // 角色变更立即生效
			}
			return gin.H{"id": id, "role": in.Role}, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban 封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			if err := repo.NewUserRepo(tx).SoftDelete(c, id); err != nil {
				return nil, err
			}
			if d.Cache != nil {
				d.Cache.Forget(c, identityKey(id))
			}
			return gin.H{"id": id}, nil
		},
	})
}
