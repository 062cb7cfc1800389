package entity

import "time"

// Supplier representa un proveedor (referencia en productos).
type Supplier struct {
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
