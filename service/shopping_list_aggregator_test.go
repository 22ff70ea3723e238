package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/models"
)

func item(name, unit string, amount int) models.LineItem {
	return models.LineItem{Name: name, MeasurementUnit: unit, Amount: amount}
}

func entry(name, unit string, total int) models.AggregatedEntry {
	return models.AggregatedEntry{Name: name, MeasurementUnit: unit, TotalAmount: total}
}

func reportTotal(r models.Report) int {
	total := 0
	for _, e := range r.Entries {
		total += e.TotalAmount
	}
	return total
}

func asLineItems(r models.Report) []models.LineItem {
	items := make([]models.LineItem, 0, len(r.Entries))
	for _, e := range r.Entries {
		items = append(items, item(e.Name, e.MeasurementUnit, e.TotalAmount))
	}
	return items
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []models.LineItem
		want  []models.AggregatedEntry
	}{
		{
			name:  "empty input",
			items: nil,
			want:  []models.AggregatedEntry{},
		},
		{
			name:  "single item",
			items: []models.LineItem{item("Milk", "ml", 500)},
			want:  []models.AggregatedEntry{entry("Milk", "ml", 500)},
		},
		{
			name: "repeated ingredient keeps first occurrence position",
			items: []models.LineItem{
				item("Sugar", "g", 200),
				item("Flour", "g", 300),
				item("Sugar", "g", 50),
			},
			want: []models.AggregatedEntry{
				entry("Sugar", "g", 250),
				entry("Flour", "g", 300),
			},
		},
		{
			name: "same name with different units stays separate",
			items: []models.LineItem{
				item("Sugar", "g", 100),
				item("Sugar", "cup", 1),
				item("Sugar", "g", 20),
			},
			want: []models.AggregatedEntry{
				entry("Sugar", "g", 120),
				entry("Sugar", "cup", 1),
			},
		},
		{
			name: "many recipes",
			items: []models.LineItem{
				item("яйца", "шт", 2),
				item("молоко", "мл", 200),
				item("яйца", "шт", 3),
				item("соль", "г", 5),
				item("молоко", "мл", 100),
				item("соль", "г", 1),
			},
			want: []models.AggregatedEntry{
				entry("яйца", "шт", 5),
				entry("молоко", "мл", 300),
				entry("соль", "г", 6),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Aggregate(tt.items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Entries)
		})
	}
}

func TestAggregate_ConservesAmountsAndNames(t *testing.T) {
	items := []models.LineItem{
		item("Sugar", "g", 200),
		item("Flour", "g", 300),
		item("Sugar", "g", 50),
		item("Eggs", "pcs", 3),
		item("Flour", "g", 120),
	}

	report, err := Aggregate(items)
	require.NoError(t, err)

	inputTotal := 0
	inputNames := map[string]bool{}
	for _, it := range items {
		inputTotal += it.Amount
		inputNames[it.Name] = true
	}
	assert.Equal(t, inputTotal, reportTotal(report))

	outputNames := map[string]bool{}
	for _, e := range report.Entries {
		assert.False(t, outputNames[e.Name], "ingredient %q appears twice", e.Name)
		outputNames[e.Name] = true
	}
	assert.Equal(t, inputNames, outputNames)
}

func TestAggregate_TotalsIgnoreInputOrder(t *testing.T) {
	forward := []models.LineItem{
		item("Sugar", "g", 200),
		item("Flour", "g", 300),
		item("Sugar", "g", 50),
		item("Butter", "g", 80),
	}
	reversed := make([]models.LineItem, len(forward))
	for i := range forward {
		reversed[len(forward)-1-i] = forward[i]
	}

	a, err := Aggregate(forward)
	require.NoError(t, err)
	b, err := Aggregate(reversed)
	require.NoError(t, err)

	totals := func(r models.Report) map[string]int {
		m := map[string]int{}
		for _, e := range r.Entries {
			m[e.Name] = e.TotalAmount
		}
		return m
	}
	assert.Equal(t, totals(a), totals(b))
	assert.Equal(t, "Sugar", a.Entries[0].Name)
	assert.Equal(t, "Butter", b.Entries[0].Name)
}

func TestAggregate_IsIdempotent(t *testing.T) {
	first, err := Aggregate([]models.LineItem{
		item("Sugar", "g", 200),
		item("Flour", "g", 300),
		item("Sugar", "g", 50),
	})
	require.NoError(t, err)

	second, err := Aggregate(asLineItems(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregate_DoesNotModifyInput(t *testing.T) {
	items := []models.LineItem{item("Sugar", "g", 200), item("Sugar", "g", 50)}

	_, err := Aggregate(items)
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{item("Sugar", "g", 200), item("Sugar", "g", 50)}, items)
}

func TestAggregate_RejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name  string
		items []models.LineItem
	}{
		{name: "empty name", items: []models.LineItem{item("Sugar", "g", 1), item("", "g", 1)}},
		{name: "blank name", items: []models.LineItem{item("   ", "g", 1)}},
		{name: "zero amount", items: []models.LineItem{item("Sugar", "g", 0)}},
		{name: "negative amount", items: []models.LineItem{item("Sugar", "g", 5), item("Sugar", "g", -5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Aggregate(tt.items)
			require.ErrorIs(t, err, ErrInvalidLineItem)
			assert.Empty(t, report.Entries)
		})
	}
}
