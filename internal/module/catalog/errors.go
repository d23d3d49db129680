package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUTaken          = errors.New("sku already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockExceedsMax   = errors.New("stock exceeds maximum")
)
