package domain

import "time"

// Seller — учётная запись продавца. Пароль хранится только в виде bcrypt-хеша.
type Seller struct {
	ID           string
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity возвращает представление продавца для токена и контекста запроса.
func (s Seller) Identity() Identity {
	return Identity{
		ID:      s.ID,
		Email:   s.Email,
		Name:    s.Name,
		Surname: s.Surname,
	}
}

// Validate проверяет, корректно ли заполнены обязательные поля учётной записи.
func (s *Seller) Validate() []error {
	var errs []error

	if s.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if s.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if s.PasswordHash == "" {
		errs = append(errs, ErrPasswordRequired)
	}

	return errs
}
