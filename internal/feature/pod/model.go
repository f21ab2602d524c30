package pod

import (
	"strings"
	"time"

	"pod-service/internal/domain"
)

// PODModel 交付回执表。photo_paths 按上传顺序逗号拼接存储（顺序即语义，不能重排）。
type PODModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(32)"`
	CaseNumber    string    `gorm:"size:64;not null;index"`
	DriverName    string    `gorm:"size:64;not null"`
	ForemanName   string    `gorm:"size:64"`
	CustomerName  string    `gorm:"size:128"`
	Notes         string    `gorm:"type:text"`
	PhotoPaths    string    `gorm:"type:text"`
	SignaturePath string    `gorm:"size:255"`
	Status        string    `gorm:"size:16;not null;default:pending;index"`
	ApprovalNotes string    `gorm:"type:text"`
	ApprovedBy    string    `gorm:"size:32"`
	DriverID      string    `gorm:"size:32;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (PODModel) TableName() string { return "pod_records" }

func JoinPaths(paths []string) string { return strings.Join(paths, ",") }

func SplitPaths(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (m *PODModel) ToDomain() *domain.PODRecord {
	return &domain.PODRecord{
		ID:            m.ID,
		CaseNumber:    m.CaseNumber,
		DriverName:    m.DriverName,
		ForemanName:   m.ForemanName,
		CustomerName:  m.CustomerName,
		Notes:         m.Notes,
		PhotoPaths:    SplitPaths(m.PhotoPaths),
		SignaturePath: m.SignaturePath,
		Status:        domain.Status(m.Status),
		ApprovalNotes: m.ApprovalNotes,
		ApprovedBy:    m.ApprovedBy,
		DriverID:      m.DriverID,
		CreatedAt:     m.CreatedAt,
	}
}

func FromDomain(r *domain.PODRecord) *PODModel {
	return &PODModel{
		ID:            r.ID,
		CaseNumber:    r.CaseNumber,
		DriverName:    r.DriverName,
		ForemanName:   r.ForemanName,
		CustomerName:  r.CustomerName,
		Notes:         r.Notes,
		PhotoPaths:    JoinPaths(r.PhotoPaths),
		SignaturePath: r.SignaturePath,
		Status:        string(r.Status),
		ApprovalNotes: r.ApprovalNotes,
		ApprovedBy:    r.ApprovedBy,
		DriverID:      r.DriverID,
		CreatedAt:     r.CreatedAt,
	}
}
