package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated возвращается, когда операция требует проверенный Identity,
	// а запрос пришёл анонимным или с невалидным токеном.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden возвращается, когда вызывающий аутентифицирован,
	// но не владеет целевой сущностью.
	ErrForbidden = errors.New("insufficient credentials")
	// ErrInvalidCredentials — пара email/пароль не подошла.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSellerNotFound возвращается, если учётная запись продавца не найдена.
	ErrSellerNotFound = errors.New("seller not found")
	// ErrSellerExists — продавец с таким email уже зарегистрирован.
	ErrSellerExists = errors.New("seller already registered")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerExists — клиент с таким email уже зарегистрирован.
	ErrCustomerExists = errors.New("customer already registered")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")

	// Ошибки валидации входных данных.
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrSellerRequired   = errors.New("seller_id is required")
	ErrCustomerRequired = errors.New("customer_id is required")
	ErrItemsRequired    = errors.New("order must contain at least one item")
	ErrItemQtyInvalid   = errors.New("item qty must be greater than zero")
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	ErrItemDuplicated   = errors.New("order items must not repeat a product")
	ErrPriceNegative    = errors.New("price_minor must be non-negative")
	ErrQuantityNegative = errors.New("available_qty must be non-negative")
	ErrTotalMismatch    = errors.New("order total does not match items sum")
	ErrStatusInvalid    = errors.New("order status is not valid")
)

// OutOfStockError сигнализирует о нехватке остатка по конкретному товару.
// Несёт отображаемое имя товара — оно попадает в текст ответа пользователю.
type OutOfStockError struct {
	ProductID   string
	ProductName string
	Requested   int64
	Available   int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %q exceeds available quantity: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// IsOutOfStock проверяет, является ли ошибка нехваткой остатка.
func IsOutOfStock(err error) bool {
	var e *OutOfStockError
	return errors.As(err, &e)
}

// ValidationError агрегирует замечания Validate*-проверок в одну ошибку.
type ValidationError struct {
	Issues []error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", errors.Join(e.Issues...))
}

// NewValidationError возвращает nil при пустом списке замечаний.
func NewValidationError(issues []error) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
