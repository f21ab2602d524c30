package podclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod-service/internal/domain"
)

func TestLoginCachesIdentity(t *testing.T) {
	b := newFakeBackend(t)
	c := b.client()

	u, err := c.Login(t.Context(), "worker", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "worker", u.Username)
	assert.Equal(t, "tok-worker", c.Token())
	assert.Equal(t, "Jens Jensen", c.DefaultDriverName())
	assert.False(t, c.CanApprove())

	got, err := c.CurrentUser(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
}

func TestLoginBadCredentials(t *testing.T) {
	b := newFakeBackend(t)
	c := b.client()

	_, err := c.Login(t.Context(), "worker", "forkert")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, c.Token())
}

func TestCurrentUserWithoutToken(t *testing.T) {
	b := newFakeBackend(t)
	_, err := b.client().CurrentUser(t.Context())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// 凭证被服务端拒绝后本地立即作废，后续调用不再带旧 token
func TestCurrentUserInvalidTokenDropsCredential(t *testing.T) {
	b := newFakeBackend(t)
	c := New(b.url(), WithToken("tok-udløbet"))

	_, err := c.CurrentUser(t.Context())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, c.Token())
	assert.Nil(t, c.User())
}

func TestRestoredTokenResolvesIdentity(t *testing.T) {
	b := newFakeBackend(t)
	c := New(b.url(), WithToken("tok-foreman"))

	u, err := c.CurrentUser(t.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleForeman, u.Role)
	assert.True(t, c.CanApprove())
}

// 完整剧本：worker 建单 → 列表可见 pending → 工长批准 →
// worker 再批吃 403 → admin 想改判吃 409
func TestDeliveryApprovalScenario(t *testing.T) {
	b := newFakeBackend(t)
	ctx := t.Context()

	worker := b.loginAs(t, "worker")
	rec, err := worker.CreateWithFiles(ctx,
		CreateInput{CaseNumber: "SAG-1", DriverName: "Jens Jensen", CustomerName: "Kunde A/S"},
		photoFiles("f.jpg", "b.jpg"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, rec.Status)

	list, err := worker.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SAG-1", list[0].CaseNumber)
	assert.Equal(t, []string{"/uploads/u0.jpg", "/uploads/u1.jpg"}, list[0].PhotoPaths)

	foreman := b.loginAs(t, "foreman")
	got, err := foreman.Approve(ctx, rec.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, "ok", got.ApprovalNotes)

	fresh, err := worker.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, fresh.Status)
	assert.Equal(t, "ok", fresh.ApprovalNotes)

	// 本地缓存了身份，worker 连请求都不用发就被置灰拦下
	_, err = worker.Approve(ctx, rec.ID, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// 只恢复 token、没有缓存身份的客户端会打到服务端，由守卫判 403
	rawWorker := New(b.url(), WithToken("tok-worker"))
	_, err = rawWorker.Approve(ctx, rec.ID, "x")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// 已终态的单据谁都改不了
	admin := b.loginAs(t, "admin")
	_, err = admin.Reject(ctx, rec.ID, "no")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateLocalValidation(t *testing.T) {
	b := newFakeBackend(t)
	c := b.loginAs(t, "worker")

	var ve *domain.ValidationError
	_, err := c.Create(t.Context(), CreateInput{DriverName: "A"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "case_number", ve.Field)

	_, err = c.Create(t.Context(), CreateInput{CaseNumber: "SAG-1", DriverName: "  "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "driver_name", ve.Field)
}

func TestErrorMapping(t *testing.T) {
	b := newFakeBackend(t)
	ctx := t.Context()

	foreman := b.loginAs(t, "foreman")

	_, err := foreman.Get(ctx, "findes-ikke")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = foreman.SetApproval(ctx, "findes-ikke", domain.StatusApproved, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	worker := b.loginAs(t, "worker")
	rec, err := worker.Create(ctx, CreateInput{CaseNumber: "SAG-1", DriverName: "A"})
	require.NoError(t, err)

	// 非法目标状态由服务端判 400，映射成校验错误
	var ve *domain.ValidationError
	_, err = foreman.SetApproval(ctx, rec.ID, domain.Status("bogus"), "")
	assert.ErrorAs(t, err, &ve)

	_, err = b.client().List(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRenderPDF(t *testing.T) {
	b := newFakeBackend(t)
	c := b.loginAs(t, "worker")

	rec, err := c.Create(t.Context(), CreateInput{CaseNumber: "SAG-7", DriverName: "A"})
	require.NoError(t, err)

	pdf, err := c.RenderPDF(t.Context(), rec.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	_, err = c.RenderPDF(t.Context(), "findes-ikke")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendEmail(t *testing.T) {
	b := newFakeBackend(t)
	c := b.loginAs(t, "worker")

	rec, err := c.Create(t.Context(), CreateInput{CaseNumber: "SAG-8", DriverName: "A"})
	require.NoError(t, err)

	require.NoError(t, c.SendEmail(t.Context(), rec.ID, "kunde@example.com", "", ""))
	assert.ErrorIs(t, c.SendEmail(t.Context(), "findes-ikke", "kunde@example.com", "", ""), domain.ErrNotFound)
}
