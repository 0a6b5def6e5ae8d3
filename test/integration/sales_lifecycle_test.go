package integration

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/crm/internal/auth"
	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/catalog"
	"github.com/vladislavdragonenkov/crm/internal/service/customer"
	"github.com/vladislavdragonenkov/crm/internal/service/identity"
	"github.com/vladislavdragonenkov/crm/internal/service/inventory"
	"github.com/vladislavdragonenkov/crm/internal/service/order"
	"github.com/vladislavdragonenkov/crm/internal/service/report"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

// SalesLifecycleTestSuite тестирует полный цикл продаж поверх
// сервисного слоя: регистрация, каталог, клиенты, заказы, отчёты.
type SalesLifecycleTestSuite struct {
	suite.Suite

	identity *identity.Service
	catalog  *catalog.Service
	customer *customer.Service
	order    *order.Service
	report   *report.Service

	products domain.ProductRepository
}

func (suite *SalesLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	sellers := memory.NewSellerRepository()
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository()

	tokens := auth.NewTokenManager("integration-secret", 0)
	ledger := inventory.NewLedgerWithoutMetrics(products, logger)

	suite.identity = identity.NewService(sellers, tokens, logger)
	suite.catalog = catalog.NewService(products, logger)
	suite.customer = customer.NewService(customers, logger)
	suite.order = order.NewServiceWithoutMetrics(orders, customers, products, ledger, logger)
	suite.report = report.NewService(orders, customers, sellers, logger)
	suite.products = products
}

func (suite *SalesLifecycleTestSuite) registerSeller(email string) *domain.Identity {
	created, err := suite.identity.Register(context.Background(), identity.RegisterInput{
		Email:    email,
		Name:     "Test",
		Surname:  "Seller",
		Password: "secret-password",
	})
	require.NoError(suite.T(), err)
	return &created
}

func (suite *SalesLifecycleTestSuite) TestFullSalesCycle() {
	ctx := context.Background()
	seller := suite.registerSeller("seller@example.com")

	chair, err := suite.catalog.Create(ctx, seller, catalog.ProductInput{
		Name:         "Chair",
		PriceMinor:   2500,
		AvailableQty: 10,
	})
	require.NoError(suite.T(), err)

	anna, err := suite.customer.Create(ctx, seller, customer.CustomerInput{
		Name:  "Anna",
		Email: "anna@example.com",
	})
	require.NoError(suite.T(), err)

	created, err := suite.order.Create(ctx, seller, order.CreateInput{
		CustomerID: anna.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 4}},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusPending, created.Status)
	require.Equal(suite.T(), int64(10000), created.TotalMinor)

	// Сток списан при оформлении
	left, err := suite.catalog.Get(ctx, chair.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(6), left.AvailableQty)

	// Закрываем продажу
	completed, err := suite.order.Update(ctx, seller, created.ID, order.UpdateInput{
		Status: domain.OrderStatusCompleted,
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusCompleted, completed.Status)

	// Закрытая продажа попадает в рейтинги
	topCustomers, err := suite.report.TopCustomers(ctx, seller, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), topCustomers, 1)
	require.Equal(suite.T(), anna.ID, topCustomers[0].CustomerID)
	require.Equal(suite.T(), int64(10000), topCustomers[0].TotalMinor)

	topSellers, err := suite.report.TopSellers(ctx, seller, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), topSellers, 1)
	require.Equal(suite.T(), seller.ID, topSellers[0].SellerID)
}

func (suite *SalesLifecycleTestSuite) TestPendingSalesStayOutOfRankings() {
	ctx := context.Background()
	seller := suite.registerSeller("seller@example.com")

	chair, err := suite.catalog.Create(ctx, seller, catalog.ProductInput{
		Name:         "Chair",
		PriceMinor:   2500,
		AvailableQty: 10,
	})
	require.NoError(suite.T(), err)

	anna, err := suite.customer.Create(ctx, seller, customer.CustomerInput{
		Name:  "Anna",
		Email: "anna@example.com",
	})
	require.NoError(suite.T(), err)

	_, err = suite.order.Create(ctx, seller, order.CreateInput{
		CustomerID: anna.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 1}},
	})
	require.NoError(suite.T(), err)

	topCustomers, err := suite.report.TopCustomers(ctx, seller, 0)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), topCustomers)
}

func (suite *SalesLifecycleTestSuite) TestOwnershipIsolation() {
	ctx := context.Background()
	owner := suite.registerSeller("owner@example.com")
	stranger := suite.registerSeller("stranger@example.com")

	anna, err := suite.customer.Create(ctx, owner, customer.CustomerInput{
		Name:  "Anna",
		Email: "anna@example.com",
	})
	require.NoError(suite.T(), err)

	_, err = suite.customer.Get(ctx, stranger, anna.ID)
	require.ErrorIs(suite.T(), err, domain.ErrForbidden)

	chair, err := suite.catalog.Create(ctx, owner, catalog.ProductInput{
		Name:         "Chair",
		PriceMinor:   2500,
		AvailableQty: 10,
	})
	require.NoError(suite.T(), err)

	// Чужой клиент недоступен для оформления заказа
	_, err = suite.order.Create(ctx, stranger, order.CreateInput{
		CustomerID: anna.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 1}},
	})
	require.ErrorIs(suite.T(), err, domain.ErrForbidden)

	// Каталог при этом общий: чужой товар виден и продаётся
	bob, err := suite.customer.Create(ctx, stranger, customer.CustomerInput{
		Name:  "Bob",
		Email: "bob@example.com",
	})
	require.NoError(suite.T(), err)

	_, err = suite.order.Create(ctx, stranger, order.CreateInput{
		CustomerID: bob.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 1}},
	})
	require.NoError(suite.T(), err)
}

func (suite *SalesLifecycleTestSuite) TestOutOfStockLeavesNothingBehind() {
	ctx := context.Background()
	seller := suite.registerSeller("seller@example.com")

	chair, err := suite.catalog.Create(ctx, seller, catalog.ProductInput{
		Name:         "Chair",
		PriceMinor:   2500,
		AvailableQty: 2,
	})
	require.NoError(suite.T(), err)

	anna, err := suite.customer.Create(ctx, seller, customer.CustomerInput{
		Name:  "Anna",
		Email: "anna@example.com",
	})
	require.NoError(suite.T(), err)

	_, err = suite.order.Create(ctx, seller, order.CreateInput{
		CustomerID: anna.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 5}},
	})
	require.Error(suite.T(), err)
	require.True(suite.T(), domain.IsOutOfStock(err))

	// Остаток не тронут, заказов нет
	left, err := suite.catalog.Get(ctx, chair.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(2), left.AvailableQty)

	mine, err := suite.order.ListMine(ctx, seller)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), mine)
}

func (suite *SalesLifecycleTestSuite) TestCancelKeepsStockConsumed() {
	ctx := context.Background()
	seller := suite.registerSeller("seller@example.com")

	chair, err := suite.catalog.Create(ctx, seller, catalog.ProductInput{
		Name:         "Chair",
		PriceMinor:   2500,
		AvailableQty: 10,
	})
	require.NoError(suite.T(), err)

	anna, err := suite.customer.Create(ctx, seller, customer.CustomerInput{
		Name:  "Anna",
		Email: "anna@example.com",
	})
	require.NoError(suite.T(), err)

	created, err := suite.order.Create(ctx, seller, order.CreateInput{
		CustomerID: anna.ID,
		Items:      []order.LineInput{{ProductID: chair.ID, Qty: 3}},
	})
	require.NoError(suite.T(), err)

	_, err = suite.order.Update(ctx, seller, created.ID, order.UpdateInput{
		Status: domain.OrderStatusCancelled,
	})
	require.NoError(suite.T(), err)

	// Отмена не возвращает списанный сток
	left, err := suite.catalog.Get(ctx, chair.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(7), left.AvailableQty)

	// Отменённый заказ не попадает в рейтинги
	topCustomers, err := suite.report.TopCustomers(ctx, seller, 0)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), topCustomers)
}

func TestSalesLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(SalesLifecycleTestSuite))
}
