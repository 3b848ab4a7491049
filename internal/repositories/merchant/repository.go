// Package merchant stores the admin/merchant commerce records backing
// the HTTP surface: merchants, their products, and incoming orders.
package merchant

import "context"

// Merchant is a selling account created by the operator
type Merchant struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"created_at"`
}

// Product is one listing owned by a merchant
type Product struct {
	ID          int64  `json:"id"`
	MerchantID  int64  `json:"merchant_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CreatedAt   int64  `json:"created_at"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Order records a buyer identity and the items they bought
type Order struct {
	ID         int64       `json:"id"`
	MerchantID int64       `json:"merchant_id"`
	BuyerID    int64       `json:"buyer_id"`
	BuyerName  string      `json:"buyer_name"`
	Items      []OrderItem `json:"items"`
	CreatedAt  int64       `json:"created_at"`
}

// CreateMerchantInput defines the request for creating a merchant
type CreateMerchantInput struct {
	Name     string
	Slug     string
	Password string
}

// CreateProductInput defines the request for creating a product
type CreateProductInput struct {
	MerchantID  int64
	Title       string
	Description string
	Price       int64
}

// CreateOrderInput defines the request for recording an order
type CreateOrderInput struct {
	MerchantID int64
	BuyerID    int64
	BuyerName  string
	Items      []OrderItem
}

// Repository persists merchants, products, and orders
type Repository interface {
	CreateMerchant(ctx context.Context, input CreateMerchantInput) (*Merchant, error)
	GetMerchantBySlug(ctx context.Context, slug string) (*Merchant, error)
	ListMerchants(ctx context.Context) ([]*Merchant, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	ListProductsByMerchant(ctx context.Context, merchantID int64) ([]*Product, error)

	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
}
