package model

// Customer is read-only reference data shown on the staff dashboard.
type Customer struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	TotalSpentCents int64  `json:"totalSpentCents"`
	JoinDate        string `json:"joinDate"`
}
