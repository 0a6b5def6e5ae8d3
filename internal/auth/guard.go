package auth

import "github.com/vladislavdragonenkov/crm/internal/domain"

// Owned — сущность с постоянным владельцем-продавцом.
type Owned interface {
	OwnerSellerID() string
}

// Authorize допускает к сущности только её владельца.
// Применяется перед каждым чтением по id, обновлением и удалением
// Customer и Order; отчёты по агрегатам проверку владения не проходят.
func Authorize(identity *domain.Identity, entity Owned) error {
	if err := Require(identity); err != nil {
		return err
	}
	if entity.OwnerSellerID() != identity.ID {
		return domain.ErrForbidden
	}
	return nil
}
