package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// Purpose distinguishes tokens that share the signing key.
type Purpose string

const (
	PurposeAccess              Purpose = "access"
	PurposeRefresh             Purpose = "refresh"
	PurposeCertificateDownload Purpose = "certificate_download"
	PurposePasswordReset       Purpose = "password_reset"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token issued for a different purpose")
)

// Claims represents the JWT claims for every token purpose
type Claims struct {
	Role          models.Role `json:"role,omitempty"`
	Purpose       Purpose     `json:"purpose"`
	CertificateID uint64      `json:"certificate_id,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Pair is an access token with its refresh token.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Options configures a Manager.
type Options struct {
	Secret      string
	Issuer      string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	DownloadTTL time.Duration
	ResetTTL    time.Duration
}

// Manager handles JWT creation and validation
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        map[Purpose]time.Duration
	now        func() time.Time
}

func NewManager(opts Options) *Manager {
	return &Manager{
		signingKey: []byte(opts.Secret),
		issuer:     opts.Issuer,
		ttl: map[Purpose]time.Duration{
			PurposeAccess:              opts.AccessTTL,
			PurposeRefresh:             opts.RefreshTTL,
			PurposeCertificateDownload: opts.DownloadTTL,
			PurposePasswordReset:       opts.ResetTTL,
		},
		now: time.Now,
	}
}

// WithClock returns a copy of the manager that reads time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	clone := *m
	clone.now = now
	return &clone
}

// TTL returns the lifetime configured for a purpose.
func (m *Manager) TTL(p Purpose) time.Duration {
	return m.ttl[p]
}

// IssuePair creates a fresh access and refresh token for the user.
func (m *Manager) IssuePair(userID uint64, role models.Role) (Pair, error) {
	access, err := m.sign(Claims{Role: role, Purpose: PurposeAccess}, userID)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(Claims{Role: role, Purpose: PurposeRefresh}, userID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(m.ttl[PurposeAccess].Seconds()),
	}, nil
}

// IssueAccess creates an access token carrying the role claim.
func (m *Manager) IssueAccess(userID uint64, role models.Role) (string, error) {
	return m.sign(Claims{Role: role, Purpose: PurposeAccess}, userID)
}

// IssueDownload creates a token that grants access to one certificate of one volunteer.
func (m *Manager) IssueDownload(volunteerID, certificateID uint64) (string, error) {
	return m.sign(Claims{Purpose: PurposeCertificateDownload, CertificateID: certificateID}, volunteerID)
}

// IssueReset creates a password reset token.
func (m *Manager) IssueReset(userID uint64) (string, error) {
	return m.sign(Claims{Purpose: PurposePasswordReset}, userID)
}

func (m *Manager) sign(claims Claims, userID uint64) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl[claims.Purpose])),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// Parse validates the token signature, expiry and purpose.
func (m *Manager) Parse(tokenString string, purpose Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	return claims, nil
}
