package domain

import "time"

type Category struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type CategoryCount struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	CardsCount  int    `json:"cardsCount"`
}

type Card struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Favorites  int        `json:"favorites"`
	Likes      int        `json:"likes"`
	Dislikes   int        `json:"dislikes"`
	AuthorID   int64      `json:"authorId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Categories []Category `json:"categories"`

	// Personal flags, set only for authenticated viewers.
	IsFavorite *bool `json:"isFavorite,omitempty"`
	IsLiked    *bool `json:"isLiked,omitempty"`
	IsDisliked *bool `json:"isDisliked,omitempty"`
}

// CardInput is the body of create and edit.
type CardInput struct {
	Title      string
	Content    string
	Categories []string
}

// Card list actions relative to a user.
const (
	ActionCreated  = "created"
	ActionFavorite = "favorite"
	ActionLiked    = "liked"
	ActionDisliked = "disliked"
)

// CardQuery filters and pages the card list.
type CardQuery struct {
	Search     string
	Page       int
	Limit      int
	Order      string
	Sort       string
	Categories []string
	UserID     int64
	Action     string
	// ViewerID personalizes the result; 0 for anonymous.
	ViewerID int64
}

type CardPage struct {
	Cards      []Card `json:"cards"`
	TotalCards int    `json:"totalCards"`
	TotalPages int    `json:"totalPages"`
}

// CardPosition is a card within an ordered filtered set, with its neighbours.
type CardPosition struct {
	Card         Card  `json:"card"`
	CardPosition int   `json:"cardPosition"`
	PrevCardID   int64 `json:"prevCardId"`
	NextCardID   int64 `json:"nextCardId"`
	TotalCards   int   `json:"totalCards"`
}

// Reaction kinds a user can toggle on a card.
type Reaction string

const (
	ReactionLike     Reaction = "like"
	ReactionDislike  Reaction = "dislike"
	ReactionFavorite Reaction = "favorite"
)

// ImportRequest describes a Google Sheets range to import cards from.
type ImportRequest struct {
	SpreadsheetID   string
	SheetName       string
	SkipFirstRow    bool
	SkipFirstColumn bool
}

type Stats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalCards         int `json:"totalCards"`
	TotalCategories    int `json:"totalCategories"`
	TotalCategorized   int `json:"totalCategorized"`
	TotalUncategorized int `json:"totalUncategorized"`
	TotalFavorite      int `json:"totalFavorite"`
	TotalLiked         int `json:"totalLiked"`
	TotalDisliked      int `json:"totalDisliked"`
}

// TotalPages returns the number of pages needed for total items.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
