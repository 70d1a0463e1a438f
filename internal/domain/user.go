package domain

import "time"

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint       `json:"id"`
	UserNumber   string     `json:"userNumber"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Role         string     `json:"role"`
	Balance      float64    `json:"balance"`
	RafflePoints int        `json:"rafflePoints"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
