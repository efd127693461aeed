package certpdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() CertificateView {
	completed := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	return CertificateView{
		ID:               12,
		VolunteerName:    "Zoë Volunteer",
		OrganizationName: "Parks & Rec",
		OpportunityTitle: "Trail cleanup",
		IssuerName:       "Olive Owner",
		Hours:            7.5,
		IssuedAt:         time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC),
		CompletedAt:      &completed,
		Notes:            "Led the morning crew",
	}
}

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{
		2:     "2",
		2.5:   "2.5",
		2.25:  "2.25",
		2.999: "3",
		0.1:   "0.1",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatHours(in), "hours %v", in)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(sampleView(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	r := NewRenderer()
	require.NoError(t, r.Render(sampleView(), &a))
	require.NoError(t, r.Render(sampleView(), &b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestGenerateWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "certs")

	path, err := NewRenderer().Generate(sampleView(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "certificate-12.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateFailsOnUnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewRenderer().Generate(sampleView(), filepath.Join(file, "certs"))
	assert.Error(t, err)
}
