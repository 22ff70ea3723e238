package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/metrics"
	"foodgram/models"
	"foodgram/repository"
)

type fakeCartRepository struct {
	items map[int64][]models.LineItem
	err   error
	calls []int64
}

var _ repository.ShoppingCartRepositoryInterface = (*fakeCartRepository)(nil)

func (f *fakeCartRepository) ListLineItems(_ context.Context, userID int64) ([]models.LineItem, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return nil, f.err
	}
	return f.items[userID], nil
}

func (f *fakeCartRepository) Add(context.Context, int64, int64) (*models.ShoppingCartEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCartRepository) Remove(context.Context, int64, int64) error {
	return errors.New("not implemented")
}

type failingRenderer struct{}

func (failingRenderer) Format() Format { return FormatPDF }

func (failingRenderer) Render(context.Context, models.Report) (*Document, error) {
	return nil, &RenderError{Format: FormatPDF, Err: errors.New("chrome not found")}
}

func TestShoppingListService_BuildReport(t *testing.T) {
	repo := &fakeCartRepository{items: map[int64][]models.LineItem{
		7: {item("Sugar", "g", 200), item("Flour", "g", 300), item("Sugar", "g", 50)},
		8: {item("Salt", "g", 1)},
	}}
	svc := NewShoppingListService(repo, nil, NewTextRenderer())

	report, err := svc.BuildReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []models.AggregatedEntry{entry("Sugar", "g", 250), entry("Flour", "g", 300)}, report.Entries)
	assert.Equal(t, []int64{7}, repo.calls)

	empty, err := svc.BuildReport(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
}

func TestShoppingListService_BuildReportErrors(t *testing.T) {
	t.Run("repository failure is wrapped", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		svc := NewShoppingListService(&fakeCartRepository{err: dbErr}, nil)

		_, err := svc.BuildReport(context.Background(), 1)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("invalid line item", func(t *testing.T) {
		repo := &fakeCartRepository{items: map[int64][]models.LineItem{1: {item("Sugar", "g", 0)}}}
		svc := NewShoppingListService(repo, nil)

		_, err := svc.BuildReport(context.Background(), 1)
		assert.ErrorIs(t, err, ErrInvalidLineItem)
	})
}

func TestShoppingListService_Export(t *testing.T) {
	repo := &fakeCartRepository{items: map[int64][]models.LineItem{
		1: {item("milk", "ml", 500)},
	}}
	m := metrics.New()
	svc := NewShoppingListService(repo, m, NewTextRenderer(), NewHTMLRenderer(writeFont(t)))

	doc, err := svc.Export(context.Background(), 1, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Список покупок:\n1) Milk - 500 ml.\n", string(doc.Data))
	assert.Equal(t, "shopping_list.txt", doc.Filename)

	doc, err = svc.Export(context.Background(), 1, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), "1) Milk - 500 ml.")

	count, err := testutil.GatherAndCount(m.Registry(), "foodgram_shopping_list_exports_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestShoppingListService_ExportErrors(t *testing.T) {
	repo := &fakeCartRepository{items: map[int64][]models.LineItem{1: {item("milk", "ml", 500)}}}

	t.Run("unregistered format", func(t *testing.T) {
		svc := NewShoppingListService(repo, nil, NewTextRenderer())

		_, err := svc.Export(context.Background(), 1, FormatPDF)
		assert.Error(t, err)
	})

	t.Run("render failure", func(t *testing.T) {
		svc := NewShoppingListService(repo, metrics.New(), failingRenderer{})

		doc, err := svc.Export(context.Background(), 1, FormatPDF)
		assert.Nil(t, doc)
		var renderErr *RenderError
		assert.ErrorAs(t, err, &renderErr)
	})

	t.Run("report failure is counted", func(t *testing.T) {
		m := metrics.New()
		broken := &fakeCartRepository{err: errors.New("connection refused")}
		svc := NewShoppingListService(broken, m, NewTextRenderer())

		doc, err := svc.Export(context.Background(), 1, FormatText)
		assert.Nil(t, doc)
		require.Error(t, err)

		expected := `
# HELP foodgram_shopping_list_exports_total Shopping list exports by document format and outcome.
# TYPE foodgram_shopping_list_exports_total counter
foodgram_shopping_list_exports_total{format="txt",status="error"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "foodgram_shopping_list_exports_total"))
	})
}
