package domain

import "time"

// Customer — клиент, закреплённый за создавшим его продавцом.
// Владелец назначается при создании и не переназначается.
type Customer struct {
	ID      string
	Name    string
	Surname string
	Company string
	// Email уникален среди всех клиентов.
	Email string
	Phone string
	// SellerID — владелец записи; только он может её читать и менять.
	SellerID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerSellerID реализует auth.Owned.
func (c Customer) OwnerSellerID() string { return c.SellerID }

// ValidateInvariants проверяет обязательные поля клиента.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if c.SellerID == "" {
		errs = append(errs, ErrSellerRequired)
	}

	return errs
}
