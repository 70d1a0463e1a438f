package domain

type AuthFormData struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// DashboardStats feeds the admin stat grid.
type DashboardStats struct {
	ActiveItems    int64
	CompletedItems int64
	TicketsSold    int64
	TicketRevenue  float64
	Users          int64
}
