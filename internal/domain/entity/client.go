package entity

import "time"

// Client representa un cliente que recibe entregas. Email es único.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
