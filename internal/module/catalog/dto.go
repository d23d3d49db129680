package catalog

type CreateProductRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	MaxStock    int    `json:"max_stock"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Price       *int64  `json:"price"`
	MaxStock    *int    `json:"max_stock"`
	Active      *bool   `json:"active"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type ListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}
