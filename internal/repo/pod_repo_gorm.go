package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pod-service/internal/domain"
	"pod-service/internal/feature/pod"
)

type PODRepo struct{ db *gorm.DB }

func NewPODRepo(db *gorm.DB) *PODRepo { return &PODRepo{db: db} }

var _ domain.PODRepository = (*PODRepo)(nil)

func (r *PODRepo) Create(ctx context.Context, rec *domain.PODRecord) error {
	return r.db.WithContext(ctx).Create(pod.FromDomain(rec)).Error
}

func (r *PODRepo) FindByID(ctx context.Context, id string) (*domain.PODRecord, error) {
	var m pod.PODModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// List 全量列表，created_at DESC + id 兜底保证顺序稳定
func (r *PODRepo) List(ctx context.Context) ([]domain.PODRecord, error) {
	var ms []pod.PODModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PODRecord, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

// SetApproval 条件更新：WHERE status = 'pending' 保证并发审批只有第一个提交生效。
// RowsAffected == 0 说明别人已经先处理掉了（或单据不存在），由上层区分。
func (r *PODRepo) SetApproval(ctx context.Context, id string, to domain.Status, notes, approvedBy string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&pod.PODModel{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":         string(to),
			"approval_notes": notes,
			"approved_by":    approvedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
