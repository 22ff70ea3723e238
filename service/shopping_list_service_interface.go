package service

import (
	"context"

	"foodgram/models"
)

// ShoppingListServiceInterface defines the contract for shopping list operations
type ShoppingListServiceInterface interface {
	BuildReport(ctx context.Context, userID int64) (models.Report, error)
	Export(ctx context.Context, userID int64, format Format) (*Document, error)
}
