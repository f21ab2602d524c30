package router

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pod-service/internal/domain"
	"pod-service/internal/pdfgen"
	"pod-service/internal/service"
	httpez "pod-service/internal/transport/http/ez"
	mdw "pod-service/internal/transport/http/middleware"
)

// actorFrom JWT 中间件写入的身份；handler 只关心 ID 和角色
func actorFrom(c *gin.Context) *domain.User {
	return &domain.User{ID: c.GetString("userId"), Role: c.GetString("role")}
}

// mountPODActions 单据全部操作，挂在鉴权分组下
func mountPODActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)

	// 附件上传：逐个落盘，响应里的 paths 顺序 == 表单里的文件顺序。
	// 客户端要求严格串行上传时就是一次一个文件地调这里。
	httpez.POSTFILES(ez, "/pod/upload", func(c *gin.Context, files []*multipart.FileHeader) (any, error) {
		paths := make([]string, 0, len(files))
		for i, fh := range files {
			src, err := fh.Open()
			if err != nil {
				return nil, &domain.UploadError{Index: i, Name: fh.Filename, Err: err}
			}
			ref, err := d.Uploads.Save(fh.Filename, src)
			src.Close()
			if err != nil {
				return nil, err
			}
			paths = append(paths, ref)
		}
		return gin.H{"path": paths[0], "paths": paths}, nil
	})

	// 创建单据：服务端分配 id / status=pending / created_at / driver_id
	httpez.RegisterAction[service.CreateInput, *domain.PODRecord](ez, d.DB, httpez.Action[service.CreateInput, *domain.PODRecord]{
		Method: http.MethodPost,
		Path:   "/pod",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *service.CreateInput) (*domain.PODRecord, error) {
			return d.Pods.Create(c, actorFrom(c), *in)
		},
	})

	httpez.RegisterAction[struct{}, []domain.PODRecord](ez, d.DB, httpez.Action[struct{}, []domain.PODRecord]{
		Method: http.MethodGet,
		Path:   "/pod",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.PODRecord, error) {
			return d.Pods.List(c)
		},
	})

	httpez.RegisterAction[struct{}, *domain.PODRecord](ez, d.DB, httpez.Action[struct{}, *domain.PODRecord]{
		Method: http.MethodGet,
		Path:   "/pod/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.PODRecord, error) {
			return d.Pods.Get(c, c.Param("id"))
		},
	})

	// 审批迁移：角色 + 状态守卫都在 service/domain 里，这里只传递
	type approveIn struct {
		Status        string `json:"status"         binding:"required"`
		ApprovalNotes string `json:"approval_notes" binding:"omitempty,max=2000"`
	}
	httpez.RegisterAction[approveIn, *domain.PODRecord](ez, d.DB, httpez.Action[approveIn, *domain.PODRecord]{
		Method: http.MethodPost,
		Path:   "/pod/:id/approve",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *approveIn) (*domain.PODRecord, error) {
			rec, err := d.Pods.SetApproval(c, actorFrom(c), c.Param("id"), domain.Status(in.Status), in.ApprovalNotes)
			if err != nil {
				return nil, err
			}
			mdw.CountTransition(string(rec.Status))
			return rec, nil
		},
	})

	// PDF 导出走原始响应，不套 JSON envelope
	authed.GET("/pod/:id/pdf", func(c *gin.Context) {
		rec, err := d.Pods.Get(c, c.Param("id"))
		if err != nil {
			httpez.Fail(c, err)
			return
		}
		b, err := pdfgen.Render(rec)
		if err != nil {
			httpez.Fail(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+pdfgen.Filename(rec)+`"`)
		c.Data(http.StatusOK, "application/pdf", b)
	})

	// 渲染 + SMTP 发送，失败不重试
	type emailIn struct {
		ToEmail string `json:"to_email" binding:"required,email"`
		Subject string `json:"subject"  binding:"omitempty,max=255"`
		Body    string `json:"body"     binding:"omitempty,max=10000"`
	}
	httpez.RegisterAction[emailIn, gin.H](ez, d.DB, httpez.Action[emailIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/pod/:id/email",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *emailIn) (gin.H, error) {
			if d.Mailer == nil || !d.Mailer.Enabled() {
				return nil, httpez.Internal("smtp not configured", nil)
			}
			rec, err := d.Pods.Get(c, c.Param("id"))
			if err != nil {
				return nil, err
			}
			b, err := pdfgen.Render(rec)
			if err != nil {
				return nil, err
			}
			subject := in.Subject
			if subject == "" {
				subject = "POD - " + rec.CaseNumber
			}
			body := in.Body
			if body == "" {
				body = "Vedhæftet POD leveringskvittering."
			}
			if err := d.Mailer.SendPDF(in.ToEmail, subject, body, pdfgen.Filename(rec), b); err != nil {
				return nil, httpez.Internal("email failed", err)
			}
			return gin.H{"status": "success"}, nil
		},
	})
}
