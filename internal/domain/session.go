package domain

import "time"

// RefreshSession is one device's refresh token. Only the token digest is stored.
type RefreshSession struct {
	ID          string    `json:"id"`
	HashedToken string    `json:"-"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"userAgent"`
	UserID      int64     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ClientInfo describes the caller of an auth operation.
type ClientInfo struct {
	IP        string
	UserAgent string
}
