package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         string
	Avatar       string
	CreatedAt    time.Time
}

type ActivityLog struct {
	ID        string
	Timestamp time.Time
	UserID    string
	Action    string
	Details   string
	Category  string
}
