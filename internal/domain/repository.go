package domain

import "context"

// SellerRepository описывает требования к хранилищу учётных записей продавцов.
type SellerRepository interface {
	// Create сохраняет нового продавца. Возвращает ErrSellerExists при дубле email.
	Create(ctx context.Context, seller Seller) error
	// Get возвращает продавца по идентификатору или ErrSellerNotFound.
	Get(ctx context.Context, id string) (Seller, error)
	// GetByEmail возвращает продавца по email или ErrSellerNotFound.
	GetByEmail(ctx context.Context, email string) (Seller, error)
}

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	// Search ищет товары по тексту имени, ограничивая выдачу limit (если > 0).
	Search(ctx context.Context, text string, limit int) ([]Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock атомарно применяет набор движений остатка: либо все пройдут,
	// либо ни одно. Положительная Delta списывает остаток и завершается
	// OutOfStockError, если доступного остатка не хватает; отрицательная —
	// возвращает резерв. Конкурентные вызовы по одному товару сериализуются
	// условным обновлением хранилища.
	AdjustStock(ctx context.Context, deltas []StockDelta) error
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrCustomerExists при дубле email.
	Create(ctx context.Context, customer Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(ctx context.Context, id string) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	// ListBySeller фильтрует по владельцу на стороне хранилища,
	// чужие записи не покидают его.
	ListBySeller(ctx context.Context, sellerID string) ([]Customer, error)
	Update(ctx context.Context, customer Customer) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Order, error)
	ListBySellerAndStatus(ctx context.Context, sellerID string, status OrderStatus) ([]Order, error)
	Update(ctx context.Context, order Order) error
	Delete(ctx context.Context, id string) error

	// TopCustomers группирует COMPLETED-заказы по клиенту и суммирует TotalMinor.
	// Порядок: сумма по убыванию, при равенстве — идентификатор по возрастанию.
	TopCustomers(ctx context.Context, limit int) ([]CustomerSales, error)
	// TopSellers — то же по продавцам.
	TopSellers(ctx context.Context, limit int) ([]SellerSales, error)
}
