package ez

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pod-service/internal/domain"
	resp "pod-service/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// AErr 统一错误对象，Code 同时是 HTTP 状态码和 body code
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// CodeFor 把 domain 错误分类映射到响应码；所有 handler 的出错路径都经过这里
func CodeFor(err error) (int, string) {
	var ve *domain.ValidationError
	var ue *domain.UploadError
	var re *domain.RenderError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return resp.CodeUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidState):
		return resp.CodeConflict, err.Error()
	case errors.As(err, &ve):
		return resp.CodeBadRequest, ve.Error()
	case errors.As(err, &ue):
		return resp.CodeBadRequest, ue.Error()
	case errors.As(err, &re):
		return resp.CodeServerError, re.Error()
	default:
		return resp.CodeServerError, err.Error()
	}
}

// Fail 按错误分类写响应，raw handler（pdf 下载等）直接用
func Fail(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		c.JSON(resp.HTTPStatus(ae.Code), resp.Error(ae.Code, ae.Error()))
		return
	}
	code, msg := CodeFor(err)
	c.JSON(resp.HTTPStatus(code), resp.Error(code, msg))
}

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/pod/:id/approve"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	UseTx   bool     // 是否包事务（gorm.Transaction）
	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			uid := c.GetString("userId")
			if uid == "" {
				c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 {
				role := c.GetString("role")
				ok := false
				for _, r := range a.Roles {
					if role == r {
						ok = true
						break
					}
				}
				if !ok {
					c.JSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c))
		}

		// 4) 统一错误映射
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// POSTFILES 处理 multipart/form-data 文件上传。
// 兼容单文件字段 file 和多文件字段 files，保持表单里的出现顺序。
func POSTFILES(e EZ, path string, h func(c *gin.Context, files []*multipart.FileHeader) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid multipart form: "+err.Error()))
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			files = form.File["file"]
		}
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "no files uploaded"))
			return
		}

		data, err := h(c, files)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(data))
	})
}
