package domain

import "context"

// TokenIssuer выпускает подписанный токен для проверенного Identity.
type TokenIssuer interface {
	Issue(identity Identity) (string, error)
}

// TokenVerifier проверяет подпись и срок действия токена.
type TokenVerifier interface {
	// Verify возвращает Identity из валидного токена
	// или ошибку для просроченного/повреждённого.
	Verify(token string) (Identity, error)
}

// InventoryLedger — журнал остатков: резерв и возврат резерва по позициям заказа.
type InventoryLedger interface {
	// Reserve списывает остаток под перечисленные позиции. Всё или ничего:
	// при нехватке хотя бы по одному товару остатки не меняются.
	Reserve(ctx context.Context, items []StockDelta) error
	// Release возвращает ранее зарезервированный остаток (компенсация).
	Release(ctx context.Context, items []StockDelta) error
	// Adjust применяет смешанный набор движений (резерв и возврат) одной
	// атомарной операцией; используется при net-diff обновлении заказа.
	Adjust(ctx context.Context, deltas []StockDelta) error
}
