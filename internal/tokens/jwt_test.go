package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

func newTestManager() *Manager {
	return NewManager(Options{
		Secret:      "test-secret",
		Issuer:      "volunteerhub-test",
		AccessTTL:   30 * time.Minute,
		RefreshTTL:  30 * 24 * time.Hour,
		DownloadTTL: 72 * time.Hour,
		ResetTTL:    time.Hour,
	})
}

func TestIssuePairRoundTrip(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(42, models.RoleOrganization)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.EqualValues(t, 1800, pair.ExpiresIn)

	access, err := m.Parse(pair.AccessToken, PurposeAccess)
	require.NoError(t, err)
	id, err := access.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, models.RoleOrganization, access.Role)
	assert.NotEmpty(t, access.ID)

	refresh, err := m.Parse(pair.RefreshToken, PurposeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(1, models.RoleVolunteer)
	require.NoError(t, err)

	_, err = m.Parse(pair.RefreshToken, PurposeAccess)
	assert.ErrorIs(t, err, ErrWrongPurpose)
	_, err = m.Parse(pair.AccessToken, PurposeCertificateDownload)
	assert.ErrorIs(t, err, ErrWrongPurpose)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager().WithClock(func() time.Time { return issuedAt })

	token, err := m.IssueAccess(1, models.RoleVolunteer)
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return issuedAt.Add(31 * time.Minute) })
	_, err = later.Parse(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	m := newTestManager()
	other := NewManager(Options{Secret: "another-secret", Issuer: "volunteerhub-test", AccessTTL: time.Minute})

	token, err := other.IssueAccess(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = m.Parse(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager()
	claims := Claims{Purpose: PurposeAccess, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "volunteerhub-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Parse(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDownloadTokenCarriesCertificate(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueDownload(9, 77)
	require.NoError(t, err)

	claims, err := m.Parse(token, PurposeCertificateDownload)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.EqualValues(t, 9, id)
	assert.EqualValues(t, 77, claims.CertificateID)
	assert.Equal(t, 72*time.Hour, m.TTL(PurposeCertificateDownload))
}
