package apiclient

import (
	"context"
	"net/http"
)

// Product is an item from the public product listing.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

// Products fetches the public product listing from the marketing
// surface. No authentication is required.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Products, nil
}
