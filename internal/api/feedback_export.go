package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

const (
	defaultExportLimit       = 1000
	defaultExportConcurrency = 8
)

type ExportOptions struct {
	// Type defaults to dislike.
	Type        FeedbackType
	StartDate   string
	EndDate     string
	Limit       int
	Concurrency int
}

// ExportRecord is one JSONL line of a feedback export.
type ExportRecord struct {
	Prompt              *string          `json:"prompt"`
	Response            *string          `json:"response"`
	Feedback            string           `json:"feedback"`
	FeedbackType        FeedbackType     `json:"feedback_type"`
	Model               *string          `json:"model"`
	ConversationHistory []HistoryMessage `json:"conversation_history"`
	CreatedAt           string           `json:"created_at"`
}

func exportRecord(d FeedbackDetail) ExportRecord {
	return ExportRecord{
		Prompt:              d.UserInput,
		Response:            d.AssistantOutput,
		Feedback:            d.Reason,
		FeedbackType:        d.FeedbackType,
		Model:               d.ModelName,
		ConversationHistory: d.ConversationHistory,
		CreatedAt:           d.CreatedAt,
	}
}

// Export lists feedback matching opts, fetches every detail and writes one JSON
// object per line in list order. It returns the number of records written.
func (c *FeedbackClient) Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error) {
	if opts.Type == "" {
		opts.Type = FeedbackDislike
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultExportLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultExportConcurrency
	}

	offset := 0
	page, err := c.List(ctx, FeedbackListParams{
		Type:      opts.Type,
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		Limit:     opts.Limit,
		Offset:    &offset,
	})
	if err != nil {
		return 0, fmt.Errorf("list feedback: %w", err)
	}

	details := make([]FeedbackDetail, len(page.Feedbacks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, item := range page.Feedbacks {
		i, item := i, item
		g.Go(func() error {
			d, err := c.Detail(gctx, item.ID)
			if err != nil {
				return fmt.Errorf("feedback %s: %w", item.ID, err)
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, d := range details {
		if err := enc.Encode(exportRecord(d)); err != nil {
			return i, fmt.Errorf("write export record: %w", err)
		}
	}
	return len(details), nil
}
