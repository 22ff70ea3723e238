package service

import (
	"context"
	"fmt"
	"time"

	"foodgram/logger"
	"foodgram/metrics"
	"foodgram/models"
	"foodgram/repository"
)

// ShoppingListService builds and exports a user's shopping list
type ShoppingListService struct {
	repository repository.ShoppingCartRepositoryInterface
	renderers  map[Format]DocumentRenderer
	metrics    *metrics.Metrics
}

var _ ShoppingListServiceInterface = (*ShoppingListService)(nil)

// NewShoppingListService creates a new ShoppingListService. metrics may be nil.
func NewShoppingListService(repo repository.ShoppingCartRepositoryInterface, m *metrics.Metrics, renderers ...DocumentRenderer) *ShoppingListService {
	byFormat := make(map[Format]DocumentRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ShoppingListService{
		repository: repo,
		renderers:  byFormat,
		metrics:    m,
	}
}

// BuildReport loads every line item of the user's cart and aggregates them
func (s *ShoppingListService) BuildReport(ctx context.Context, userID int64) (models.Report, error) {
	items, err := s.repository.ListLineItems(ctx, userID)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to list shopping cart line items: %w", err)
	}

	report, err := Aggregate(items)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("❌ BuildReport: cart contains an invalid line item")
		return models.Report{}, err
	}

	logger.Debug().Int64("user_id", userID).Int("line_items", len(items)).Int("entries", report.Len()).
		Msg("🛒 BuildReport: shopping list aggregated")
	return report, nil
}

// Export builds the report and renders it in the requested format
func (s *ShoppingListService) Export(ctx context.Context, userID int64, format Format) (*Document, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("no renderer registered for format %q", format)
	}

	report, err := s.BuildReport(ctx, userID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveReportFailure(string(format))
		}
		return nil, err
	}

	start := time.Now()
	doc, err := renderer.Render(ctx, report)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveExport(string(format), report.Len(), elapsed, err)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("user_id", userID).Str("format", string(format)).Int("entries", report.Len()).
		Int("bytes", len(doc.Data)).Dur("elapsed", elapsed).Msg("✅ Export: shopping list rendered")
	return doc, nil
}
