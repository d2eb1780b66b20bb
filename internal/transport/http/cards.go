package http

import (
	"context"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/service/cards"
	"github.com/kloda-app/kloda/backend/internal/transport/http/middleware"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
)

type CardService interface {
	List(ctx context.Context, q domain.CardQuery) (*domain.CardPage, error)
	Get(ctx context.Context, id int64, categories []string, viewerID int64) (*domain.CardPosition, error)
	Random(ctx context.Context, currentID int64, categories []string, viewerID int64) (*domain.Card, error)
	Create(ctx context.Context, authorID int64, in domain.CardInput) (*domain.Card, error)
	Update(ctx context.Context, id, authorID int64, in domain.CardInput) (*domain.Card, error)
	Delete(ctx context.Context, id, authorID int64) error
	DeleteAll(ctx context.Context, authorID int64) (int64, error)
	React(ctx context.Context, userID, cardID int64, reaction domain.Reaction) (bool, error)
	Export(ctx context.Context, author domain.UserProfile) (*cards.Export, error)
	Import(ctx context.Context, authorID int64, req domain.ImportRequest) (int, error)
}

type CardsHandler struct {
	cards CardService
}

func NewCardsHandler(cards CardService) *CardsHandler {
	return &CardsHandler{cards: cards}
}

type listCardsQuery struct {
	Search     string   `form:"search" binding:"max=200"`
	Page       int      `form:"page,default=1" binding:"min=1"`
	Limit      int      `form:"limit,default=10" binding:"min=1,max=100"`
	Order      string   `form:"order,default=desc" binding:"oneof=asc desc"`
	Sort       string   `form:"sort,default=createdAt" binding:"oneof=id title content favorites likes dislikes createdAt updatedAt"`
	Categories []string `form:"categories"`
	UserID     int64    `form:"userId" binding:"omitempty,min=1"`
	Action     string   `form:"action" binding:"omitempty,oneof=created favorite liked disliked"`
}

type randomCardQuery struct {
	CurrentCardID int64    `form:"currentCardId" binding:"omitempty,min=0"`
	Categories    []string `form:"categories"`
}

type cardIDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type cardRequest struct {
	Title      string   `json:"title" binding:"required,notblank,max=255"`
	Content    string   `json:"content" binding:"required,notblank,max=10000"`
	Categories []string `json:"categories" binding:"max=20,dive,max=50"`
}

func (r cardRequest) input() domain.CardInput {
	return domain.CardInput{Title: r.Title, Content: r.Content, Categories: r.Categories}
}

type importRequest struct {
	SpreadsheetID   string `json:"spreadsheetId" binding:"required,notblank"`
	SheetName       string `json:"sheetName" binding:"required,notblank"`
	SkipFirstRow    bool   `json:"skipFirstRow"`
	SkipFirstColumn bool   `json:"skipFirstColumn"`
}

type deletedCardsResponse struct {
	DeletedCardsCount int64 `json:"deletedCardsCount"`
}

type importedCardsResponse struct {
	ImportedCardsCount int `json:"importedCardsCount"`
}

// queryCategories accepts both categories=a&categories=b and categories[]=a.
func queryCategories(c *gin.Context, bound []string) []string {
	return append(bound, c.QueryArray("categories[]")...)
}

func bindCardID(c *gin.Context) (int64, bool) {
	var p cardIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.BadRequest(c, validationMessage(err))
		return 0, false
	}
	return p.ID, true
}

// List godoc
// @Summary List cards
// @Tags Cards
// @Produce json
// @Param search query string false "Search in title and content"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param order query string false "asc or desc" default(desc)
// @Param sort query string false "Sort field" default(createdAt)
// @Param categories query []string false "Category names"
// @Param userId query int false "User for action filter"
// @Param action query string false "created, favorite, liked or disliked"
// @Success 200 {object} domain.CardPage
// @Router /v1/cards [get]
func (h *CardsHandler) List(c *gin.Context) {
	var q listCardsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	page, err := h.cards.List(c.Request.Context(), domain.CardQuery{
		Search:     q.Search,
		Page:       q.Page,
		Limit:      q.Limit,
		Order:      q.Order,
		Sort:       q.Sort,
		Categories: queryCategories(c, q.Categories),
		UserID:     q.UserID,
		Action:     q.Action,
		ViewerID:   middleware.IdentityFrom(c).UserID(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Card with its position among the filtered cards
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Param categories query []string false "Category names"
// @Success 200 {object} domain.CardPosition
// @Failure 404 {object} response.Message
// @Router /v1/cards/{id} [get]
func (h *CardsHandler) Get(c *gin.Context) {
	id, ok := bindCardID(c)
	if !ok {
		return
	}

	pos, err := h.cards.Get(c.Request.Context(), id, queryCategories(c, c.QueryArray("categories")), middleware.IdentityFrom(c).UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// Random godoc
// @Summary Random card other than the current one
// @Tags Cards
// @Produce json
// @Param currentCardId query int false "Card to exclude"
// @Param categories query []string false "Category names"
// @Success 200 {object} domain.Card
// @Failure 404 {object} response.Message
// @Router /v1/cards/random [get]
func (h *CardsHandler) Random(c *gin.Context) {
	var q randomCardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	card, err := h.cards.Random(c.Request.Context(), q.CurrentCardID, queryCategories(c, q.Categories), middleware.IdentityFrom(c).UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Create godoc
// @Summary Create a card
// @Tags Cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body cardRequest true "Card"
// @Success 201 {object} domain.Card
// @Router /v1/cards [post]
func (h *CardsHandler) Create(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	card, err := h.cards.Create(c.Request.Context(), middleware.IdentityFrom(c).UserID(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// Update godoc
// @Summary Edit one of your cards
// @Tags Cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Param body body cardRequest true "Card"
// @Success 200 {object} domain.Card
// @Failure 404 {object} response.Message
// @Router /v1/cards/{id} [patch]
func (h *CardsHandler) Update(c *gin.Context) {
	id, ok := bindCardID(c)
	if !ok {
		return
	}
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	card, err := h.cards.Update(c.Request.Context(), id, middleware.IdentityFrom(c).UserID(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete godoc
// @Summary Delete one of your cards
// @Tags Cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Message
// @Router /v1/cards/{id} [delete]
func (h *CardsHandler) Delete(c *gin.Context) {
	id, ok := bindCardID(c)
	if !ok {
		return
	}

	if err := h.cards.Delete(c.Request.Context(), id, middleware.IdentityFrom(c).UserID()); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: fmt.Sprintf("Card ID %d deleted", id)})
}

// DeleteAll godoc
// @Summary Delete all of your cards
// @Tags Cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} deletedCardsResponse
// @Failure 404 {object} response.Message
// @Router /v1/cards [delete]
func (h *CardsHandler) DeleteAll(c *gin.Context) {
	n, err := h.cards.DeleteAll(c.Request.Context(), middleware.IdentityFrom(c).UserID())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, deletedCardsResponse{DeletedCardsCount: n})
}

// react returns a handler toggling reaction and answering {field: state}.
func (h *CardsHandler) react(reaction domain.Reaction, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindCardID(c)
		if !ok {
			return
		}

		active, err := h.cards.React(c.Request.Context(), middleware.IdentityFrom(c).UserID(), id, reaction)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{field: active})
	}
}

// Like godoc
// @Summary Toggle like
// @Tags Cards
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} map[string]bool
// @Router /v1/cards/{id}/like [patch]
func (h *CardsHandler) Like() gin.HandlerFunc { return h.react(domain.ReactionLike, "isLiked") }

// Dislike godoc
// @Summary Toggle dislike
// @Tags Cards
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} map[string]bool
// @Router /v1/cards/{id}/dislike [patch]
func (h *CardsHandler) Dislike() gin.HandlerFunc {
	return h.react(domain.ReactionDislike, "isDisliked")
}

// Favorite godoc
// @Summary Toggle favorite
// @Tags Cards
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} map[string]bool
// @Router /v1/cards/{id}/favorite [patch]
func (h *CardsHandler) Favorite() gin.HandlerFunc {
	return h.react(domain.ReactionFavorite, "isFavorite")
}

// Export godoc
// @Summary Download your cards as CSV
// @Tags Cards
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} response.Message
// @Router /v1/cards/export [get]
func (h *CardsHandler) Export(c *gin.Context) {
	user, _ := middleware.IdentityFrom(c).User()

	export, err := h.cards.Export(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/csv", export.Data)
}

// Import godoc
// @Summary Import cards from a Google Sheet
// @Tags Cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body importRequest true "Sheet"
// @Success 200 {object} importedCardsResponse
// @Failure 400 {object} response.Message
// @Router /v1/cards/import [post]
func (h *CardsHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}

	n, err := h.cards.Import(c.Request.Context(), middleware.IdentityFrom(c).UserID(), domain.ImportRequest{
		SpreadsheetID:   req.SpreadsheetID,
		SheetName:       req.SheetName,
		SkipFirstRow:    req.SkipFirstRow,
		SkipFirstColumn: req.SkipFirstColumn,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, importedCardsResponse{ImportedCardsCount: n})
}
