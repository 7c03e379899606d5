package models

// DashboardStats ringkasan untuk halaman admin.
type DashboardStats struct {
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalOrders    int64            `json:"total_orders"`
	GrossRevenue   float64          `json:"gross_revenue"`
	TotalUsers     int64            `json:"total_users"`
	TotalReviews   int64            `json:"total_reviews"`
	AverageRating  float64          `json:"average_rating"`
}
