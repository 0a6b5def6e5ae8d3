package domain

// CustomerSales — суммарные продажи по одному клиенту среди COMPLETED-заказов.
type CustomerSales struct {
	CustomerID string
	TotalMinor int64
	// Customer заполняется отчётным сервисом при сборке ответа.
	Customer *Customer
}

// SellerSales — суммарные продажи по одному продавцу среди COMPLETED-заказов.
type SellerSales struct {
	SellerID   string
	TotalMinor int64
	Seller     *Identity
}
