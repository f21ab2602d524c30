package podclient

import "pod-service/internal/domain"

// Selector 列表过滤选项
type Selector string

const (
	SelectorAll      Selector = "all"
	SelectorPending  Selector = "pending"
	SelectorApproved Selector = "approved"
	SelectorRejected Selector = "rejected"
)

// Counts 各状态计数，永远基于未过滤的全量集合
type Counts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Filter 按选择器取子序列，保持原有相对顺序；只读，不改动入参。
// 未知选择器按 all 处理。
func Filter(records []domain.PODRecord, sel Selector) []domain.PODRecord {
	var want domain.Status
	switch sel {
	case SelectorPending:
		want = domain.StatusPending
	case SelectorApproved:
		want = domain.StatusApproved
	case SelectorRejected:
		want = domain.StatusRejected
	default:
		out := make([]domain.PODRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]domain.PODRecord, 0, len(records))
	for _, r := range records {
		if r.Status == want {
			out = append(out, r)
		}
	}
	return out
}

// CountByStatus 计数与当前过滤无关，切换过滤不改变任何计数
func CountByStatus(records []domain.PODRecord) Counts {
	var c Counts
	c.All = len(records)
	for _, r := range records {
		switch r.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusRejected:
			c.Rejected++
		}
	}
	return c
}
