package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// FulfillmentMetrics содержит метрики для операций с заказами и резервами склада.
type FulfillmentMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersUpdated   prometheus.Counter
	ordersDeleted   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersCancelled prometheus.Counter

	// Счётчики резервов склада
	reservationsFailed   prometheus.Counter
	reservationsReleased prometheus.Counter

	// Гистограммы времени выполнения
	fulfillmentDuration prometheus.Histogram
	stockOpDuration     *prometheus.HistogramVec

	// Gauge для активных (pending) заказов
	pendingOrders prometheus.Gauge
}

// NewFulfillmentMetrics создаёт новый экземпляр метрик фулфилмента.
func NewFulfillmentMetrics() *FulfillmentMetrics {
	return newFulfillmentMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newFulfillmentMetricsWithRegisterer(registerer prometheus.Registerer) *FulfillmentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &FulfillmentMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_updated_total",
			Help: "Total number of orders updated",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		ordersCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_completed_total",
			Help: "Total number of orders moved to the completed status",
		}),
		ordersCancelled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_cancelled_total",
			Help: "Total number of orders moved to the cancelled status",
		}),
		reservationsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_stock_reservations_failed_total",
			Help: "Total number of stock reservations rejected for insufficient quantity",
		}),
		reservationsReleased: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_stock_reservations_released_total",
			Help: "Total number of stock reservations released back to the catalog",
		}),
		fulfillmentDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "crm_order_fulfillment_duration_seconds",
			Help:    "Duration of order fulfillment operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		stockOpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "crm_stock_operation_duration_seconds",
			Help:    "Duration of individual stock ledger operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		pendingOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "crm_pending_orders",
			Help: "Number of orders currently in the pending status",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *FulfillmentMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.pendingOrders.Inc()
}

// RecordOrderUpdated увеличивает счётчик обновлённых заказов.
func (m *FulfillmentMetrics) RecordOrderUpdated() {
	if m == nil {
		return
	}
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *FulfillmentMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordOrderCompleted увеличивает счётчик завершённых заказов.
func (m *FulfillmentMetrics) RecordOrderCompleted() {
	if m == nil {
		return
	}
	m.ordersCompleted.Inc()
	m.pendingOrders.Dec()
}

// RecordOrderCancelled увеличивает счётчик отменённых заказов.
func (m *FulfillmentMetrics) RecordOrderCancelled() {
	if m == nil {
		return
	}
	m.ordersCancelled.Inc()
	m.pendingOrders.Dec()
}

// RecordReservationFailed увеличивает счётчик отклонённых резервов.
func (m *FulfillmentMetrics) RecordReservationFailed() {
	if m == nil {
		return
	}
	m.reservationsFailed.Inc()
}

// RecordReservationReleased увеличивает счётчик снятых резервов.
func (m *FulfillmentMetrics) RecordReservationReleased() {
	if m == nil {
		return
	}
	m.reservationsReleased.Inc()
}

// RecordFulfillmentDuration записывает время выполнения операции с заказом.
func (m *FulfillmentMetrics) RecordFulfillmentDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.fulfillmentDuration.Observe(duration.Seconds())
}

// RecordStockOpDuration записывает время выполнения операции склада.
func (m *FulfillmentMetrics) RecordStockOpDuration(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stockOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
