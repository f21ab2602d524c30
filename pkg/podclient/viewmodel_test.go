package podclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod-service/internal/domain"
)

func sampleRecords() []domain.PODRecord {
	return []domain.PODRecord{
		{ID: "1", Status: domain.StatusPending},
		{ID: "2", Status: domain.StatusApproved},
		{ID: "3", Status: domain.StatusPending},
		{ID: "4", Status: domain.StatusRejected},
		{ID: "5", Status: domain.StatusApproved},
		{ID: "6", Status: domain.StatusPending},
	}
}

func ids(rs []domain.PODRecord) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

// 过滤只取子序列，原有相对顺序不变
func TestFilterPreservesOrder(t *testing.T) {
	rs := sampleRecords()
	assert.Equal(t, []string{"1", "3", "6"}, ids(Filter(rs, SelectorPending)))
	assert.Equal(t, []string{"2", "5"}, ids(Filter(rs, SelectorApproved)))
	assert.Equal(t, []string{"4"}, ids(Filter(rs, SelectorRejected)))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(Filter(rs, SelectorAll)))
}

func TestFilterUnknownSelectorMeansAll(t *testing.T) {
	rs := sampleRecords()
	assert.Equal(t, ids(rs), ids(Filter(rs, Selector("whatever"))))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	rs := sampleRecords()
	_ = Filter(rs, SelectorPending)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(rs))
}

// 计数永远基于全量集合，与当前过滤无关，且各状态之和等于总数
func TestCountsIndependentOfFilter(t *testing.T) {
	rs := sampleRecords()
	want := Counts{All: 6, Pending: 3, Approved: 2, Rejected: 1}

	for _, sel := range []Selector{SelectorAll, SelectorPending, SelectorApproved, SelectorRejected} {
		_ = Filter(rs, sel)
		got := CountByStatus(rs)
		require.Equal(t, want, got)
		assert.Equal(t, got.All, got.Pending+got.Approved+got.Rejected)
	}
}

func TestCountsEmpty(t *testing.T) {
	got := CountByStatus(nil)
	assert.Equal(t, Counts{}, got)
	assert.Equal(t, got.All, got.Pending+got.Approved+got.Rejected)
}
