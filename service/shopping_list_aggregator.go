package service

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/models"
)

// ErrInvalidLineItem is returned when a line item has an empty name or a non-positive amount
var ErrInvalidLineItem = errors.New("invalid shopping list line item")

// aggregationKey groups line items. The unit is part of the key so that
// "sugar, g" and "sugar, cup" are never summed into one number.
type aggregationKey struct {
	name string
	unit string
}

// Aggregate merges line items sharing an ingredient (name and unit) and sums their amounts.
// Entries keep the order in which each ingredient was first seen.
// A malformed item rejects the whole input.
func Aggregate(items []models.LineItem) (models.Report, error) {
	entries := make([]models.AggregatedEntry, 0, len(items))
	positions := make(map[aggregationKey]int, len(items))

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" || item.Amount <= 0 {
			return models.Report{}, fmt.Errorf("%w: position %d (name=%q, amount=%d)", ErrInvalidLineItem, i, item.Name, item.Amount)
		}

		key := aggregationKey{name: item.Name, unit: item.MeasurementUnit}
		if pos, seen := positions[key]; seen {
			entries[pos].TotalAmount += item.Amount
			continue
		}

		positions[key] = len(entries)
		entries = append(entries, models.AggregatedEntry{
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
			TotalAmount:     item.Amount,
		})
	}

	return models.Report{Entries: entries}, nil
}
