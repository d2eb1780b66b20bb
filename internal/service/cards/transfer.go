package cards

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

var exportHeader = []string{"ID", "Title", "Content", "Comma-separated categories", "Created at", "Updated at"}

// Export is a rendered CSV file.
type Export struct {
	Filename string
	Data     []byte
}

// Export renders the author's cards as CSV.
func (s *Service) Export(ctx context.Context, author domain.UserProfile) (*Export, error) {
	cards, err := s.store.Cards().ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	if len(cards) == 0 {
		return nil, domain.NewNotFound(domain.MsgCardsNotFound)
	}
	if err := s.decorate(ctx, cards, author.ID); err != nil {
		return nil, domain.NewInternal(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, domain.NewInternal(err)
	}
	for _, c := range cards {
		names := make([]string, len(c.Categories))
		for i, cat := range c.Categories {
			names[i] = cat.DisplayName
		}
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Title,
			c.Content,
			strings.Join(names, ", "),
			c.CreatedAt.Format(time.DateOnly),
			c.UpdatedAt.Format(time.DateOnly),
		}
		if err := w.Write(record); err != nil {
			return nil, domain.NewInternal(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.NewInternal(fmt.Errorf("failed to write %s cards csv: %w", author.Username, err))
	}

	return &Export{
		Filename: fmt.Sprintf("Kloda - %s created cards (%s).csv", author.Username, s.now().Format(time.DateOnly)),
		Data:     buf.Bytes(),
	}, nil
}

type sheetCard struct {
	title      string
	content    string
	categories []domain.Category
}

// Import creates cards from the rows of a spreadsheet. Each row holds title,
// content and comma-separated categories; rows with fewer cells or an empty
// title or content are skipped. All cards are created in one transaction.
func (s *Service) Import(ctx context.Context, authorID int64, req domain.ImportRequest) (int, error) {
	values, err := s.sheets.Values(ctx, req.SpreadsheetID, req.SheetName)
	if err != nil {
		return 0, domain.AsError(err)
	}

	rows := values
	if req.SkipFirstRow && len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return 0, domain.NewValidation(MsgRowsNotFound)
	}
	if len(rows) > s.importLimit {
		return 0, domain.NewValidation(fmt.Sprintf("Import cards limit exceeded: %d/%d", len(rows), s.importLimit))
	}

	parsed := parseRows(rows, req.SkipFirstColumn)

	err = s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		for _, c := range parsed {
			id, err := tx.Cards().Create(ctx, authorID, c.title, c.content)
			if err != nil {
				return domain.NewInternal(err)
			}
			if err := tx.Categories().Attach(ctx, id, c.categories); err != nil {
				return domain.NewInternal(err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, domain.AsError(err)
	}

	metrics.CardsImported.Add(float64(len(parsed)))
	logging.Info().Int64("user_id", authorID).Int("cards", len(parsed)).Str("spreadsheet_id", req.SpreadsheetID).Msg("imported cards")

	s.invalidate(ctx)
	return len(parsed), nil
}

func parseRows(rows [][]string, skipFirstColumn bool) []sheetCard {
	cards := make([]sheetCard, 0, len(rows))
	for _, row := range rows {
		cells := row
		if skipFirstColumn && len(cells) > 0 {
			cells = cells[1:]
		}
		if len(cells) < 3 {
			continue
		}

		title := strings.TrimSpace(cells[0])
		content := strings.TrimSpace(cells[1])
		if title == "" || content == "" {
			continue
		}

		cards = append(cards, sheetCard{
			title:      title,
			content:    content,
			categories: NormalizeCategories(strings.Split(cells[2], ",")),
		})
	}
	return cards
}
