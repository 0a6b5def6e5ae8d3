package httpapi

import (
	"time"

	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// JSON-представления доменных сущностей.

type identityResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
}

func toIdentityResponse(identity domain.Identity) identityResponse {
	return identityResponse{
		ID:      identity.ID,
		Email:   identity.Email,
		Name:    identity.Name,
		Surname: identity.Surname,
	}
}

type sellerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toSellerResponse(seller domain.Seller) sellerResponse {
	return sellerResponse{
		ID:        seller.ID,
		Email:     seller.Email,
		Name:      seller.Name,
		Surname:   seller.Surname,
		CreatedAt: seller.CreatedAt,
	}
}

type productResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PriceMinor   int64     `json:"price_minor"`
	AvailableQty int64     `json:"available_qty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:           product.ID,
		Name:         product.Name,
		PriceMinor:   product.PriceMinor,
		AvailableQty: product.AvailableQty,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname,omitempty"`
	Company   string    `json:"company,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(customer domain.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Surname:   customer.Surname,
		Company:   customer.Company,
		Email:     customer.Email,
		Phone:     customer.Phone,
		SellerID:  customer.SellerID,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

type orderItemResponse struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	SellerID   string              `json:"seller_id"`
	Items      []orderItemResponse `json:"items"`
	TotalMinor int64               `json:"total_minor"`
	Status     string              `json:"status"`
	Customer   *customerResponse   `json:"customer,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toOrderResponse(ord domain.Order) orderResponse {
	resp := orderResponse{
		ID:         ord.ID,
		CustomerID: ord.CustomerID,
		SellerID:   ord.SellerID,
		Items: lo.Map(ord.Items, func(item domain.OrderLineItem, _ int) orderItemResponse {
			return orderItemResponse{
				ProductID:  item.ProductID,
				Qty:        item.Qty,
				PriceMinor: item.PriceMinor,
			}
		}),
		TotalMinor: ord.TotalMinor,
		Status:     string(ord.Status),
		CreatedAt:  ord.CreatedAt,
		UpdatedAt:  ord.UpdatedAt,
	}
	if ord.Customer != nil {
		snapshot := toCustomerResponse(*ord.Customer)
		resp.Customer = &snapshot
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	return lo.Map(orders, func(ord domain.Order, _ int) orderResponse {
		return toOrderResponse(ord)
	})
}

type customerSalesResponse struct {
	CustomerID string            `json:"customer_id"`
	TotalMinor int64             `json:"total_minor"`
	Customer   *customerResponse `json:"customer,omitempty"`
}

func toCustomerSalesResponse(row domain.CustomerSales) customerSalesResponse {
	resp := customerSalesResponse{
		CustomerID: row.CustomerID,
		TotalMinor: row.TotalMinor,
	}
	if row.Customer != nil {
		snapshot := toCustomerResponse(*row.Customer)
		resp.Customer = &snapshot
	}
	return resp
}

type sellerSalesResponse struct {
	SellerID   string            `json:"seller_id"`
	TotalMinor int64             `json:"total_minor"`
	Seller     *identityResponse `json:"seller,omitempty"`
}

func toSellerSalesResponse(row domain.SellerSales) sellerSalesResponse {
	resp := sellerSalesResponse{
		SellerID:   row.SellerID,
		TotalMinor: row.TotalMinor,
	}
	if row.Seller != nil {
		snapshot := toIdentityResponse(*row.Seller)
		resp.Seller = &snapshot
	}
	return resp
}
