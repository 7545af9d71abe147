package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
	ErrSKURequired     = errors.New("SKU_REQUIRED")
	ErrStockRequired   = errors.New("STOCK_REQUIRED")
	ErrQueryRequired   = errors.New("QUERY_REQUIRED")
)
