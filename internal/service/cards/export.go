package cards

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// exportedSet is the portable JSON shape for set exchange. Learning state
// is deliberately excluded so imports start fresh.
type exportedSet struct {
	Name        string       `json:"name"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Cards       []ImportCard `json:"cards"`
}

// ExportSet serializes a set's cards in the requested format.
// CSV output is RFC 4180 quoted with a Question,Answer,Tags header; tags
// are joined with ";" inside the third column.
func (s *Service) ExportSet(ctx context.Context, setID string, format ExportFormat) ([]byte, error) {
	set, err := s.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		out := exportedSet{
			Name:        set.Name,
			Subject:     set.Subject,
			Description: set.Description,
			Cards:       make([]ImportCard, 0, len(set.Cards)),
		}
		for i := range set.Cards {
			c := &set.Cards[i]
			out.Cards = append(out.Cards, ImportCard{
				Question: c.Question,
				Answer:   c.Answer,
				Tags:     c.Tags,
				ImageURL: c.ImageURL,
				AudioURL: c.AudioURL,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode set %s: %w", setID, err)
		}
		return data, nil

	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"Question", "Answer", "Tags"}); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		for i := range set.Cards {
			c := &set.Cards[i]
			rec := []string{c.Question, c.Answer, strings.Join(c.Tags, ";")}
			if err := w.Write(rec); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flush csv: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, domain.NewValidationError("format", "must be json or csv")
}

// ImportCards bulk-adds cards to an existing set. Entries missing a
// question or answer are skipped; the number of cards added is returned.
func (s *Service) ImportCards(ctx context.Context, input ImportCardsInput) (int, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	now := s.now()
	added := 0
	err := s.update(ctx, func(doc *domain.FlashcardDoc) error {
		set, ok := doc.Sets[input.SetID]
		if !ok {
			return fmt.Errorf("set %s: %w", input.SetID, domain.ErrNotFound)
		}
		for _, in := range input.Cards {
			if in.Question == "" || in.Answer == "" {
				continue
			}
			card := domain.Card{
				ID:        s.newID(),
				Question:  in.Question,
				Answer:    in.Answer,
				Tags:      in.Tags,
				ImageURL:  in.ImageURL,
				AudioURL:  in.AudioURL,
				CreatedAt: now,
			}
			if card.Tags == nil {
				card.Tags = []string{}
			}
			set.Cards = append(set.Cards, card)
			added++
		}
		if added > 0 {
			set.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("cards imported", "set_id", input.SetID, "added", added, "received", len(input.Cards))
	return added, nil
}

// ImportSetJSON creates a new set from a JSON export produced by ExportSet.
func (s *Service) ImportSetJSON(ctx context.Context, data []byte) (*domain.FlashcardSet, error) {
	var in exportedSet
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, domain.NewValidationError("data", "invalid JSON export")
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	set, err := s.CreateSet(ctx, CreateSetInput{
		Name:        in.Name,
		Subject:     in.Subject,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	if len(in.Cards) > 0 {
		if _, err := s.ImportCards(ctx, ImportCardsInput{SetID: set.ID, Cards: in.Cards}); err != nil {
			return nil, err
		}
	}
	return s.GetSet(ctx, set.ID)
}

// ImportSetCSV creates a new set from CSV data in the ExportSet layout.
// A leading Question,Answer,Tags header row is skipped when present.
func (s *Service) ImportSetCSV(ctx context.Context, name, subject string, data []byte) (*domain.FlashcardSet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, domain.NewValidationError("data", "invalid CSV")
	}

	var cards []ImportCard
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(rec[0], "question") {
			continue
		}
		if len(rec) < 2 {
			continue
		}
		card := ImportCard{Question: rec[0], Answer: rec[1]}
		if len(rec) > 2 && rec[2] != "" {
			card.Tags = strings.Split(rec[2], ";")
		}
		cards = append(cards, card)
	}

	set, err := s.CreateSet(ctx, CreateSetInput{Name: name, Subject: subject})
	if err != nil {
		return nil, err
	}
	if len(cards) > 0 {
		if _, err := s.ImportCards(ctx, ImportCardsInput{SetID: set.ID, Cards: cards}); err != nil {
			return nil, err
		}
	}
	return s.GetSet(ctx, set.ID)
}
