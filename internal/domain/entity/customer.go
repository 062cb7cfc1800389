package entity

import "time"

// Customer representa un cliente (referencia en ventas).
type Customer struct {
	ID        string
	Name      string
	TaxID     string // NUIT / documento fiscal
	Email     string
	Phone     string
	Address   string
	City      string
	Notes     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
