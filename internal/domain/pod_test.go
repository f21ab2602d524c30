package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRecord() *PODRecord {
	return &PODRecord{
		ID:         "r1",
		CaseNumber: "SAG-1",
		DriverName: "A",
		DriverID:   "worker-1",
		Status:     StatusPending,
		PhotoPaths: []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	}
}

func TestCanApprove(t *testing.T) {
	assert.False(t, CanApprove(RoleWorker))
	assert.True(t, CanApprove(RoleForeman))
	assert.True(t, CanApprove(RoleAdmin))
	assert.False(t, CanApprove(""))
	assert.False(t, CanApprove("manager"))
}

func TestTransitionApprove(t *testing.T) {
	r := pendingRecord()
	foreman := &User{ID: "f1", Role: RoleForeman}

	require.NoError(t, r.Transition(foreman, StatusApproved, "ok"))
	assert.Equal(t, StatusApproved, r.Status)
	assert.Equal(t, "ok", r.ApprovalNotes)
	assert.Equal(t, "f1", r.ApprovedBy)
}

func TestTransitionRejectByAdmin(t *testing.T) {
	r := pendingRecord()
	admin := &User{ID: "a1", Role: RoleAdmin}

	require.NoError(t, r.Transition(admin, StatusRejected, "mangler billeder"))
	assert.Equal(t, StatusRejected, r.Status)
	assert.Equal(t, "mangler billeder", r.ApprovalNotes)
}

// 创建者身份不给审批加分：worker 对自己创建的单据同样无权
func TestTransitionOwnershipGrantsNothing(t *testing.T) {
	r := pendingRecord()
	owner := &User{ID: "worker-1", Role: RoleWorker}

	err := r.Transition(owner, StatusApproved, "x")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StatusPending, r.Status)
	assert.Empty(t, r.ApprovalNotes)
}

func TestTransitionNilActor(t *testing.T) {
	r := pendingRecord()
	assert.ErrorIs(t, r.Transition(nil, StatusApproved, ""), ErrForbidden)
}

// 终态不可再迁移，且必须显式报错
func TestTransitionTerminalStates(t *testing.T) {
	admin := &User{ID: "a1", Role: RoleAdmin}
	for _, st := range []Status{StatusApproved, StatusRejected} {
		r := pendingRecord()
		r.Status = st
		r.ApprovalNotes = "done"

		err := r.Transition(admin, StatusRejected, "no")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, st, r.Status)
		assert.Equal(t, "done", r.ApprovalNotes)
	}
}

func TestTransitionInvalidTarget(t *testing.T) {
	admin := &User{ID: "a1", Role: RoleAdmin}
	for _, to := range []Status{StatusPending, Status("bogus"), Status("")} {
		r := pendingRecord()
		var ve *ValidationError
		err := r.Transition(admin, to, "")
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "status", ve.Field)
		assert.Equal(t, StatusPending, r.Status)
	}
}

func TestCanTransition(t *testing.T) {
	r := pendingRecord()
	assert.True(t, CanTransition(&User{ID: "f1", Role: RoleForeman}, r))
	assert.False(t, CanTransition(&User{ID: "w1", Role: RoleWorker}, r))
	assert.False(t, CanTransition(nil, r))

	r.Status = StatusApproved
	assert.False(t, CanTransition(&User{ID: "f1", Role: RoleForeman}, r))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("x").Valid())

	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
