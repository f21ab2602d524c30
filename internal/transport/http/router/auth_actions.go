package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pod-service/internal/core/cache"
	"pod-service/internal/domain"
	"pod-service/internal/repo"
	httpez "pod-service/internal/transport/http/ez"
	"pod-service/pkg/utils"
)

const identityTTL = 5 * time.Minute

func identityKey(uid string) string { return "user:" + uid }

// mountAuthActions /auth/register、/auth/login（公共）和 /me（鉴权）
func mountAuthActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)

	type registerIn struct {
		Username string `json:"username"  binding:"required,min=3,max=64"`
		Email    string `json:"email"     binding:"required,email"`
		Password string `json:"password"  binding:"required,min=6"`
		FullName string `json:"full_name" binding:"required,max=64"`
		Role     string `json:"role"      binding:"omitempty"`
	}
	httpez.RegisterAction[registerIn, *domain.User](ezPublic, d.DB, httpez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *registerIn) (*domain.User, error) {
			role := in.Role
			if role == "" {
				role = domain.RoleWorker
			}
			if !domain.ValidRole(role) {
				return nil, httpez.BadRequest("invalid role")
			}
			users := repo.NewUserRepo(tx)
			if existing, _, err := users.FindByUsername(c, strings.TrimSpace(in.Username)); err != nil {
				return nil, httpez.Internal("db error", err)
			} else if existing != nil {
				return nil, httpez.BadRequest("username already exists")
			}
			u := &domain.User{
				ID:       utils.NewID(),
				Username: strings.TrimSpace(in.Username),
				Email:    strings.TrimSpace(in.Email),
				FullName: strings.TrimSpace(in.FullName),
				Role:     role,
				Active:   true,
			}
			if err := users.Create(c, u, utils.HashPassword(in.Password)); err != nil {
				if isDupKey(err) {
					return nil, httpez.BadRequest("username or email already exists")
				}
				return nil, httpez.Internal("create user failed", err)
			}
			return u, nil
		},
	})

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, d.DB, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			users := repo.NewUserRepo(tx)
			u, hash, err := users.FindByUsername(c, strings.TrimSpace(in.Username))
			if err != nil {
				return loginOut{}, httpez.Internal("db error", err)
			}
			if u == nil || !utils.CheckPassword(in.Password, hash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			if !u.Active {
				return loginOut{}, httpez.Forbidden("inactive user")
			}
			tok, err := d.JWT.Issue(u.ID, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok, User: u}, nil
		},
	})

	// /me：身份解析，redis 短 TTL 缓存；用户已被封禁时按未认证处理，前端据此回登录页
	ezAuth := httpez.New(authed)
	httpez.RegisterAction[struct{}, *domain.User](ezAuth, d.DB, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (*domain.User, error) {
			uid := c.GetString("userId")
			users := repo.NewUserRepo(tx)
			var u *domain.User
			var err error
			if d.Cache != nil {
				u, err = cache.GetOrLoadJSON[domain.User](d.Cache, c, identityKey(uid), identityTTL,
					func(ctx context.Context) (*domain.User, error) { return users.FindByID(ctx, uid) })
			} else {
				u, err = users.FindByID(c, uid)
			}
			if err != nil {
				return nil, httpez.Internal("db error", err)
			}
			if u == nil || !u.Active {
				return nil, domain.ErrUnauthenticated
			}
			return u, nil
		},
	})
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
