// Package podclient 是 pod-service 的 Go 客户端：
// 凭证保存与身份解析、附件串行上传、单据读写与审批、列表过滤视图。
package podclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"pod-service/internal/domain"
)

// envelope 服务端统一响应 {code, msg, data}
type envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
	user  *domain.User // 最近一次 /me 解析出的身份
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithToken 恢复一个已持有的凭证（例如进程重启后）
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(15 * time.Second),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) req(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if t := c.Token(); t != "" {
		r.SetAuthToken(t)
	}
	return r
}

// mapError HTTP 状态码到 domain 错误分类的唯一映射点
func mapError(resp *resty.Response) error {
	msg := http.StatusText(resp.StatusCode())
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Msg != "" {
		msg = env.Msg
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrInvalidState
	case http.StatusBadRequest:
		return &domain.ValidationError{Reason: msg}
	default:
		return &domain.TransportError{Status: resp.StatusCode(), Err: errors.New(msg)}
	}
}

func transportErr(err error) error {
	return &domain.TransportError{Err: err}
}
