package podclient

import (
	"context"
	"strings"

	"pod-service/internal/domain"
)

// CreateInput 新建单据的用户输入；PhotoPaths / SignaturePath
// 必须是已经上传成功的引用
type CreateInput struct {
	CaseNumber    string   `json:"case_number"`
	DriverName    string   `json:"driver_name"`
	ForemanName   string   `json:"foreman_name,omitempty"`
	CustomerName  string   `json:"customer_name,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	PhotoPaths    []string `json:"photo_paths,omitempty"`
	SignaturePath string   `json:"signature_path,omitempty"`
}

func (c *Client) List(ctx context.Context) ([]domain.PODRecord, error) {
	var env envelope[[]domain.PODRecord]
	resp, err := c.req(ctx).SetResult(&env).Get("/api/v1/pod")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}
	return env.Data, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.PODRecord, error) {
	var env envelope[*domain.PODRecord]
	resp, err := c.req(ctx).SetResult(&env).Get("/api/v1/pod/" + id)
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}
	return env.Data, nil
}

// Create 必填字段先在本地校验，省一次注定失败的请求
func (c *Client) Create(ctx context.Context, in CreateInput) (*domain.PODRecord, error) {
	if strings.TrimSpace(in.CaseNumber) == "" {
		return nil, &domain.ValidationError{Field: "case_number", Reason: "required"}
	}
	if strings.TrimSpace(in.DriverName) == "" {
		return nil, &domain.ValidationError{Field: "driver_name", Reason: "required"}
	}
	var env envelope[*domain.PODRecord]
	resp, err := c.req(ctx).SetBody(in).SetResult(&env).Post("/api/v1/pod")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}
	return env.Data, nil
}

// CreateWithFiles 上传-引用-创建三步流水线：照片逐个串行上传，
// 然后签名，全部成功后才创建单据。中途任何失败都不会产生半截记录；
// 已上传的文件成为孤儿引用，不做补偿回收。
func (c *Client) CreateWithFiles(ctx context.Context, in CreateInput, photos []File, signature *File) (*domain.PODRecord, error) {
	refs, err := c.UploadAll(ctx, photos)
	if err != nil {
		return nil, err
	}
	in.PhotoPaths = refs
	if signature != nil {
		ref, err := c.upload(ctx, len(photos), *signature)
		if err != nil {
			return nil, err
		}
		in.SignaturePath = ref
	}
	return c.Create(ctx, in)
}

// SetApproval 审批迁移。本地先按同一条谓词做置灰级检查，
// 真正的裁决仍在服务端（非 pending 会收到 ErrInvalidState）。
func (c *Client) SetApproval(ctx context.Context, id string, to domain.Status, notes string) (*domain.PODRecord, error) {
	if u := c.User(); u != nil && !domain.CanApprove(u.Role) {
		return nil, domain.ErrForbidden
	}
	var env envelope[*domain.PODRecord]
	resp, err := c.req(ctx).
		SetBody(map[string]string{"status": string(to), "approval_notes": notes}).
		SetResult(&env).
		Post("/api/v1/pod/" + id + "/approve")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}
	return env.Data, nil
}

func (c *Client) Approve(ctx context.Context, id, notes string) (*domain.PODRecord, error) {
	return c.SetApproval(ctx, id, domain.StatusApproved, notes)
}

func (c *Client) Reject(ctx context.Context, id, notes string) (*domain.PODRecord, error) {
	return c.SetApproval(ctx, id, domain.StatusRejected, notes)
}

// RenderPDF 拉取单据当前状态的 PDF 字节流
func (c *Client) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.req(ctx).Get("/api/v1/pod/" + id + "/pdf")
	if err != nil {
		return nil, transportErr(err)
	}
	if resp.IsError() {
		return nil, mapError(resp)
	}
	return resp.Body(), nil
}

// SendEmail 让服务端渲染 PDF 并作为附件发给收件人
func (c *Client) SendEmail(ctx context.Context, id, to, subject, body string) error {
	payload := map[string]string{"to_email": to, "subject": subject, "body": body}
	resp, err := c.req(ctx).SetBody(payload).Post("/api/v1/pod/" + id + "/email")
	if err != nil {
		return transportErr(err)
	}
	if resp.IsError() {
		return mapError(resp)
	}
	return nil
}
