package domain

import (
	"context"
	"time"
)

// Status 状态机：pending → approved | rejected，两个终态都不可再变更
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal 终态判定：approved / rejected 之后不存在任何合法迁移
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// PODRecord 交付回执（proof of delivery）
type PODRecord struct {
	ID            string    `json:"id"`
	CaseNumber    string    `json:"case_number"`
	DriverName    string    `json:"driver_name"`
	ForemanName   string    `json:"foreman_name,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PhotoPaths    []string  `json:"photo_paths"`
	SignaturePath string    `json:"signature_path,omitempty"`
	Status        Status    `json:"status"`
	ApprovalNotes string    `json:"approval_notes,omitempty"`
	ApprovedBy    string    `json:"approved_by,omitempty"`
	DriverID      string    `json:"driver_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CanTransition 某个用户当前是否还能对该单据做出审批动作。
// 创建者身份不加分：worker 对自己创建的单据同样无权审批。
func CanTransition(u *User, r *PODRecord) bool {
	return u != nil && CanApprove(u.Role) && r.Status == StatusPending
}

// Transition 在内存中执行一次审批迁移。
// 非 pending 状态必须显式报错而不是静默忽略，调用方要据此提示"已被他人处理"。
func (r *PODRecord) Transition(actor *User, to Status, notes string) error {
	if actor == nil || !CanApprove(actor.Role) {
		return ErrForbidden
	}
	if to != StatusApproved && to != StatusRejected {
		return &ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = to
	r.ApprovalNotes = notes
	r.ApprovedBy = actor.ID
	return nil
}

type PODRepository interface {
	Create(ctx context.Context, r *PODRecord) error
	FindByID(ctx context.Context, id string) (*PODRecord, error)
	List(ctx context.Context) ([]PODRecord, error)
	// SetApproval 条件更新：仅当库中仍为 pending 时落盘，返回是否真的更新了。
	// 并发下先提交者胜出，后来者拿到 false。
	SetApproval(ctx context.Context, id string, to Status, notes, approvedBy string) (bool, error)
}
