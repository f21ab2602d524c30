package podclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pod-service/internal/domain"
)

// fakeBackend 模拟 pod-service 的对外契约：
// 统一 envelope、REST 状态码、审批守卫和上传引用。
type fakeBackend struct {
	mu          sync.Mutex
	tokens      map[string]*domain.User
	records     map[string]*domain.PODRecord
	order       []string
	uploadNames []string // 按到达顺序
	inFlight    int
	maxInFlight int
	nextUpload  int
	nextID      int

	uploadDelay func(i int) time.Duration // 第 i 个上传的人为延迟
	failUpload  func(name string) bool

	srv *httptest.Server
}

const testPassword = "hemmelig"

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		tokens: map[string]*domain.User{
			"tok-worker":  {ID: "w1", Username: "worker", FullName: "Jens Jensen", Role: domain.RoleWorker, Active: true},
			"tok-foreman": {ID: "f1", Username: "foreman", FullName: "Bo Berg", Role: domain.RoleForeman, Active: true},
			"tok-admin":   {ID: "a1", Username: "admin", FullName: "Admin", Role: domain.RoleAdmin, Active: true},
		},
		records: map[string]*domain.PODRecord{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", b.login)
	mux.HandleFunc("GET /api/v1/me", b.me)
	mux.HandleFunc("POST /api/v1/pod/upload", b.upload)
	mux.HandleFunc("POST /api/v1/pod", b.createPod)
	mux.HandleFunc("GET /api/v1/pod", b.listPods)
	mux.HandleFunc("GET /api/v1/pod/{id}", b.getPod)
	mux.HandleFunc("POST /api/v1/pod/{id}/approve", b.approvePod)
	mux.HandleFunc("GET /api/v1/pod/{id}/pdf", b.podPDF)
	mux.HandleFunc("POST /api/v1/pod/{id}/email", b.podEmail)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) url() string { return b.srv.URL }

func (b *fakeBackend) client() *Client { return New(b.url()) }

func (b *fakeBackend) loginAs(t *testing.T, username string) *Client {
	c := b.client()
	if _, err := c.Login(t.Context(), username, testPassword); err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return c
}

func writeEnvelope(w http.ResponseWriter, status, code int, msg string, data any) {
	if data == nil {
		data = struct{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "msg": msg, "data": data})
}

func (b *fakeBackend) auth(r *http.Request) *domain.User {
	ah := r.Header.Get("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens[strings.TrimPrefix(ah, "Bearer ")]
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Password != testPassword {
		writeEnvelope(w, 401, 401, "invalid credentials", nil)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for tok, u := range b.tokens {
		if u.Username == in.Username {
			writeEnvelope(w, 200, 0, "OK", map[string]any{"token": tok, "user": u})
			return
		}
	}
	writeEnvelope(w, 401, 401, "invalid credentials", nil)
}

func (b *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	u := b.auth(r)
	if u == nil {
		writeEnvelope(w, 401, 401, "invalid token", nil)
		return
	}
	writeEnvelope(w, 200, 0, "OK", u)
}

func (b *fakeBackend) upload(w http.ResponseWriter, r *http.Request) {
	if b.auth(r) == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeEnvelope(w, 400, 400, "invalid multipart form", nil)
		return
	}
	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		writeEnvelope(w, 400, 400, "no files uploaded", nil)
		return
	}
	name := fhs[0].Filename

	b.mu.Lock()
	i := b.nextUpload
	b.nextUpload++
	b.uploadNames = append(b.uploadNames, name)
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	delay := time.Duration(0)
	if b.uploadDelay != nil {
		delay = b.uploadDelay(i)
	}
	fail := b.failUpload != nil && b.failUpload(name)
	b.mu.Unlock()

	time.Sleep(delay)

	b.mu.Lock()
	b.inFlight--
	b.mu.Unlock()

	if fail {
		writeEnvelope(w, 400, 400, "unsupported file type", nil)
		return
	}
	path := fmt.Sprintf("/uploads/u%d.jpg", i)
	writeEnvelope(w, 200, 0, "OK", map[string]any{"path": path, "paths": []string{path}})
}

func (b *fakeBackend) createPod(w http.ResponseWriter, r *http.Request) {
	u := b.auth(r)
	if u == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	var in CreateInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if strings.TrimSpace(in.CaseNumber) == "" || strings.TrimSpace(in.DriverName) == "" {
		writeEnvelope(w, 400, 400, "validation: required field missing", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	rec := &domain.PODRecord{
		ID:            fmt.Sprintf("pod-%d", b.nextID),
		CaseNumber:    in.CaseNumber,
		DriverName:    in.DriverName,
		ForemanName:   in.ForemanName,
		CustomerName:  in.CustomerName,
		Notes:         in.Notes,
		PhotoPaths:    append([]string{}, in.PhotoPaths...),
		SignaturePath: in.SignaturePath,
		Status:        domain.StatusPending,
		DriverID:      u.ID,
		CreatedAt:     time.Now().UTC(),
	}
	b.records[rec.ID] = rec
	b.order = append(b.order, rec.ID)
	writeEnvelope(w, 200, 0, "OK", rec)
}

func (b *fakeBackend) listPods(w http.ResponseWriter, r *http.Request) {
	if b.auth(r) == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*domain.PODRecord, 0, len(b.order))
	for i := len(b.order) - 1; i >= 0; i-- {
		out = append(out, b.records[b.order[i]])
	}
	writeEnvelope(w, 200, 0, "OK", out)
}

func (b *fakeBackend) getPod(w http.ResponseWriter, r *http.Request) {
	if b.auth(r) == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	b.mu.Lock()
	rec := b.records[r.PathValue("id")]
	b.mu.Unlock()
	if rec == nil {
		writeEnvelope(w, 404, 404, "not found", nil)
		return
	}
	writeEnvelope(w, 200, 0, "OK", rec)
}

func (b *fakeBackend) approvePod(w http.ResponseWriter, r *http.Request) {
	u := b.auth(r)
	if u == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	var in struct {
		Status        string `json:"status"`
		ApprovalNotes string `json:"approval_notes"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	rec := b.records[r.PathValue("id")]
	if rec == nil {
		writeEnvelope(w, 404, 404, "not found", nil)
		return
	}
	if err := rec.Transition(u, domain.Status(in.Status), in.ApprovalNotes); err != nil {
		switch {
		case err == domain.ErrForbidden:
			writeEnvelope(w, 403, 403, "forbidden", nil)
		case err == domain.ErrInvalidState:
			writeEnvelope(w, 409, 409, "invalid state", nil)
		default:
			writeEnvelope(w, 400, 400, err.Error(), nil)
		}
		return
	}
	writeEnvelope(w, 200, 0, "OK", rec)
}

func (b *fakeBackend) podPDF(w http.ResponseWriter, r *http.Request) {
	if b.auth(r) == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	b.mu.Lock()
	rec := b.records[r.PathValue("id")]
	b.mu.Unlock()
	if rec == nil {
		writeEnvelope(w, 404, 404, "not found", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = w.Write([]byte("%PDF-1.4 fake " + rec.CaseNumber))
}

func (b *fakeBackend) podEmail(w http.ResponseWriter, r *http.Request) {
	if b.auth(r) == nil {
		writeEnvelope(w, 401, 401, "unauthorized", nil)
		return
	}
	b.mu.Lock()
	rec := b.records[r.PathValue("id")]
	b.mu.Unlock()
	if rec == nil {
		writeEnvelope(w, 404, 404, "not found", nil)
		return
	}
	writeEnvelope(w, 200, 0, "OK", map[string]string{"status": "success"})
}
