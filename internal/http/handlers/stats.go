package handlers

import "net/http"

// DashboardStats serves the fixed aggregates behind the marketing
// dashboard. The numbers are placeholders until real order data exists.
func (a *App) DashboardStats(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"totalSales":        12450.75,
		"totalOrders":       234,
		"totalCustomers":    156,
		"averageOrderValue": 53.21,
		"salesData": []map[string]any{
			{"date": "2024-01-01", "sales": 1200},
			{"date": "2024-01-02", "sales": 1800},
			{"date": "2024-01-03", "sales": 1500},
			{"date": "2024-01-04", "sales": 2100},
			{"date": "2024-01-05", "sales": 1900},
		},
	})
}
