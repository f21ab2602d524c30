package podclient

import (
	"context"

	"pod-service/internal/domain"
)

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login 换取凭证并缓存身份
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var env envelope[loginOut]
	resp, err := c.req(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&env).
		Post("/api/v1/auth/login")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}

	c.mu.Lock()
	c.token = env.Data.Token
	c.user = env.Data.User
	c.mu.Unlock()
	return env.Data.User, nil
}

// CurrentUser 用存量凭证解析身份。
// 凭证被服务端拒绝时本地凭证立刻作废（不可逆，只能重新登录），统一返回未认证。
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	if c.Token() == "" {
		return nil, domain.ErrUnauthenticated
	}
	var env envelope[*domain.User]
	resp, err := c.req(ctx).SetResult(&env).Get("/api/v1/me")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		if e := mapError(resp); e == domain.ErrUnauthenticated {
			c.Logout()
			return nil, domain.ErrUnauthenticated
		} else {
			return nil, e
		}
	}

	c.mu.Lock()
	c.user = env.Data
	c.mu.Unlock()
	return env.Data, nil
}

// Logout 丢弃凭证和缓存身份
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// User 最近一次解析出的身份（本地缓存，可能为 nil）
func (c *Client) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// CanApprove 界面置灰用的本地权限判定，与服务端守卫同一条谓词
func (c *Client) CanApprove() bool {
	u := c.User()
	return u != nil && domain.CanApprove(u.Role)
}

// DefaultDriverName 新建单据时司机名的默认值（当前用户显示名，可编辑）
func (c *Client) DefaultDriverName() string {
	if u := c.User(); u != nil {
		return u.FullName
	}
	return ""
}
