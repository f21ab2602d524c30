package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pod-service/internal/domain"
	"pod-service/pkg/utils"
)

// PODService 单据的创建与审批编排。
// 审批守卫分两层：先用内存状态机快速拒绝，再靠仓储条件更新兜底并发。
type PODService struct {
	pods domain.PODRepository
	log  *zap.Logger
}

func NewPODService(pods domain.PODRepository, log *zap.Logger) *PODService {
	return &PODService{pods: pods, log: log}
}

type CreateInput struct {
	CaseNumber    string   `json:"case_number"`
	DriverName    string   `json:"driver_name"`
	ForemanName   string   `json:"foreman_name"`
	CustomerName  string   `json:"customer_name"`
	Notes         string   `json:"notes"`
	PhotoPaths    []string `json:"photo_paths"`
	SignaturePath string   `json:"signature_path"`
}

func (s *PODService) Create(ctx context.Context, actor *domain.User, in CreateInput) (*domain.PODRecord, error) {
	if actor == nil || actor.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(in.CaseNumber) == "" {
		return nil, &domain.ValidationError{Field: "case_number", Reason: "required"}
	}
	if strings.TrimSpace(in.DriverName) == "" {
		return nil, &domain.ValidationError{Field: "driver_name", Reason: "required"}
	}

	photos := in.PhotoPaths
	if photos == nil {
		photos = []string{}
	}
	rec := &domain.PODRecord{
		ID:            utils.NewID(),
		CaseNumber:    strings.TrimSpace(in.CaseNumber),
		DriverName:    strings.TrimSpace(in.DriverName),
		ForemanName:   strings.TrimSpace(in.ForemanName),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Notes:         in.Notes,
		PhotoPaths:    photos,
		SignaturePath: in.SignaturePath,
		Status:        domain.StatusPending,
		DriverID:      actor.ID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.pods.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info("pod created",
		zap.String("id", rec.ID),
		zap.String("case_number", rec.CaseNumber),
		zap.Int("photos", len(rec.PhotoPaths)),
		zap.String("driver_id", rec.DriverID),
	)
	return rec, nil
}

func (s *PODService) List(ctx context.Context) ([]domain.PODRecord, error) {
	return s.pods.List(ctx)
}

func (s *PODService) Get(ctx context.Context, id string) (*domain.PODRecord, error) {
	rec, err := s.pods.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// SetApproval 审批迁移。内存里先走一遍状态机拿到明确错误，
// 真正落盘走条件更新：并发时先提交者胜出，后来者收到 ErrInvalidState。
func (s *PODService) SetApproval(ctx context.Context, actor *domain.User, id string, to domain.Status, notes string) (*domain.PODRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.Transition(actor, to, notes); err != nil {
		return nil, err
	}
	ok, err := s.pods.SetApproval(ctx, id, to, notes, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 读到的还是 pending，但写的时候已经被人抢先了
		return nil, domain.ErrInvalidState
	}
	s.log.Info("pod transitioned",
		zap.String("id", id),
		zap.String("status", string(to)),
		zap.String("approved_by", actor.ID),
	)
	return rec, nil
}
