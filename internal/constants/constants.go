package constants

import "time"

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

// Authentication
const (
	BearerPrefix      = "Bearer "
	MinPasswordLength = 8
)

// Token lifetimes used when configuration does not override them
const (
	DefaultAccessTokenTTL   = 30 * time.Minute
	DefaultRefreshTokenTTL  = 30 * 24 * time.Hour
	DefaultDownloadTokenTTL = 72 * time.Hour
	DefaultResetTokenTTL    = time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Listing limits
const (
	VideoListLimit    = 50
	SummaryRecentRows = 5
	MaxNotesLength    = 500
)
