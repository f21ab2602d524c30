package pdfgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pod-service/internal/domain"
)

func TestRenderProducesPDF(t *testing.T) {
	rec := &domain.PODRecord{
		ID:            "r1",
		CaseNumber:    "SAG-1",
		DriverName:    "Jens Jensen",
		ForemanName:   "Bo",
		CustomerName:  "Kunde A/S",
		Notes:         "leveret ved porten, kl. 14:30",
		PhotoPaths:    []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		SignaturePath: "/uploads/sig.png",
		Status:        domain.StatusApproved,
		ApprovalNotes: "ok",
	}
	b, err := Render(rec)
	require.NoError(t, err)
	require.Greater(t, len(b), 500)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestRenderPendingRecord(t *testing.T) {
	b, err := Render(&domain.PODRecord{
		CaseNumber: "SAG-2",
		DriverName: "A",
		Status:     domain.StatusPending,
		PhotoPaths: []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "POD_SAG-1.pdf", Filename(&domain.PODRecord{CaseNumber: "SAG-1"}))
	// 斜杠不能进 Content-Disposition
	assert.Equal(t, "POD_2024-01.pdf", Filename(&domain.PODRecord{CaseNumber: "2024/01"}))
}
