package port

import "context"

// ProductInfo is catalog metadata used only for display in alerts and
// reports, never for stock logic.
type ProductInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Catalog is the read-only view of the product catalog collaborator.
type Catalog interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
	Product(ctx context.Context, productID string) (*ProductInfo, error)
}
