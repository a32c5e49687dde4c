package handlers

import "net/http"

// Product is an item in the fixed demo catalog.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

var demoProducts = []Product{
	{ID: 1, Name: "Coffee", Price: 4.50, Stock: 120, Category: "Beverages"},
	{ID: 2, Name: "Sandwich", Price: 8.99, Stock: 45, Category: "Food"},
	{ID: 3, Name: "Pastry", Price: 3.25, Stock: 30, Category: "Food"},
}

// Products serves the fixed demo product list.
func (a *App) Products(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"products": demoProducts})
}
