package domain

import "time"

// User is the stored credential record.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	RegisteredAt   time.Time
	LastLoginAt    time.Time
}

// UserProfile is a user without the password digest, enriched with card counts.
type UserProfile struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	RegisteredAt       time.Time `json:"registeredAt"`
	LastLoginAt        time.Time `json:"lastLoginAt"`
	CreatedCardsCount  int       `json:"createdCardsCount"`
	FavoriteCardsCount int       `json:"favoriteCardsCount"`
	LikedCardsCount    int       `json:"likedCardsCount"`
	DislikedCardsCount int       `json:"dislikedCardsCount"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	UserID       int64  `json:"userId"`
	RefreshToken string `json:"-"`
}

// RefreshResult is returned by refresh.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

// UserQuery filters and pages the user list.
type UserQuery struct {
	Search string
	Page   int
	Limit  int
	Order  string
	Sort   string
}

type UserPage struct {
	Users      []UserProfile `json:"users"`
	TotalUsers int           `json:"totalUsers"`
	TotalPages int           `json:"totalPages"`
}
