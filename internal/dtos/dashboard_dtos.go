package dtos

// ----------------------
// Responses
// ----------------------

type DashboardStatsResponse struct {
	TotalProperties     int `json:"total_properties"`
	PendingProperties   int `json:"pending_properties"`
	PublishedProperties int `json:"published_properties"`
	RejectedProperties  int `json:"rejected_properties"`
	TotalUsers          int `json:"total_users"`
	TotalAgents         int `json:"total_agents"`
	PendingInquiries    int `json:"pending_inquiries"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type FavoriteResponse struct {
	PropertyID string `json:"property_id"`
	Favorited  bool   `json:"favorited"`
}
