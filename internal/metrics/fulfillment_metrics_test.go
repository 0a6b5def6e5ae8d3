package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewFulfillmentMetrics(t *testing.T) {
	metrics := NewFulfillmentMetrics()

	if metrics == nil {
		t.Fatal("NewFulfillmentMetrics should not return nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}

	if metrics.ordersUpdated == nil {
		t.Error("ordersUpdated counter should not be nil")
	}

	if metrics.ordersDeleted == nil {
		t.Error("ordersDeleted counter should not be nil")
	}

	if metrics.ordersCompleted == nil {
		t.Error("ordersCompleted counter should not be nil")
	}

	if metrics.ordersCancelled == nil {
		t.Error("ordersCancelled counter should not be nil")
	}

	if metrics.reservationsFailed == nil {
		t.Error("reservationsFailed counter should not be nil")
	}

	if metrics.reservationsReleased == nil {
		t.Error("reservationsReleased counter should not be nil")
	}

	if metrics.fulfillmentDuration == nil {
		t.Error("fulfillmentDuration histogram should not be nil")
	}

	if metrics.stockOpDuration == nil {
		t.Error("stockOpDuration histogram vec should not be nil")
	}

	if metrics.pendingOrders == nil {
		t.Error("pendingOrders gauge should not be nil")
	}
}

func TestNewFulfillmentMetricsTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newFulfillmentMetricsWithRegisterer(reg)
	second := newFulfillmentMetricsWithRegisterer(reg)

	if first.ordersCreated != second.ordersCreated {
		t.Error("expected repeated registration to reuse the existing counter")
	}
	if first.pendingOrders != second.pendingOrders {
		t.Error("expected repeated registration to reuse the existing gauge")
	}
}

func TestRecordOrderCreated(t *testing.T) {
	reg := prometheus.NewRegistry()

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_orders_created_total",
		Help: "Test counter",
	})
	pendingOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_pending_orders",
		Help: "Test gauge",
	})

	reg.MustRegister(ordersCreated, pendingOrders)

	metrics := &FulfillmentMetrics{
		ordersCreated: ordersCreated,
		pendingOrders: pendingOrders,
	}

	metrics.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}

	gaugeMetric := &dto.Metric{}
	if err := pendingOrders.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected pending orders 1.0, got %f", gaugeMetric.Gauge.GetValue())
	}
}

func TestRecordOrderCompletedDecrementsPending(t *testing.T) {
	reg := prometheus.NewRegistry()

	ordersCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_orders_completed_total",
		Help: "Test counter",
	})
	pendingOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_pending_orders_complete",
		Help: "Test gauge",
	})

	reg.MustRegister(ordersCompleted, pendingOrders)

	metrics := &FulfillmentMetrics{
		ordersCompleted: ordersCompleted,
		pendingOrders:   pendingOrders,
	}

	pendingOrders.Set(5)
	metrics.RecordOrderCompleted()

	metric := &dto.Metric{}
	if err := ordersCompleted.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}

	gaugeMetric := &dto.Metric{}
	if err := pendingOrders.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if gaugeMetric.Gauge.GetValue() != 4.0 {
		t.Errorf("expected pending orders 4.0, got %f", gaugeMetric.Gauge.GetValue())
	}
}

func TestRecordReservationFailed(t *testing.T) {
	reg := prometheus.NewRegistry()

	reservationsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_reservations_failed_total",
		Help: "Test counter",
	})

	reg.MustRegister(reservationsFailed)

	metrics := &FulfillmentMetrics{
		reservationsFailed: reservationsFailed,
	}

	metrics.RecordReservationFailed()
	metrics.RecordReservationFailed()

	metric := &dto.Metric{}
	if err := reservationsFailed.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordFulfillmentDuration(t *testing.T) {
	reg := prometheus.NewRegistry()

	fulfillmentDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_fulfillment_duration_seconds",
		Help:    "Test histogram",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(fulfillmentDuration)

	metrics := &FulfillmentMetrics{
		fulfillmentDuration: fulfillmentDuration,
	}

	metrics.RecordFulfillmentDuration(100 * time.Millisecond)
	metrics.RecordFulfillmentDuration(500 * time.Millisecond)
	metrics.RecordFulfillmentDuration(1 * time.Second)

	metric := &dto.Metric{}
	if err := fulfillmentDuration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("expected 3 samples, got %d", metric.Histogram.GetSampleCount())
	}

	// Check sum is approximately correct (0.1 + 0.5 + 1.0 = 1.6)
	sum := metric.Histogram.GetSampleSum()
	if sum < 1.5 || sum > 1.7 {
		t.Errorf("expected sum around 1.6, got %f", sum)
	}
}

func TestRecordStockOpDuration(t *testing.T) {
	reg := prometheus.NewRegistry()

	stockOpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_stock_operation_duration_seconds",
		Help:    "Test histogram vec",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"operation"})

	reg.MustRegister(stockOpDuration)

	metrics := &FulfillmentMetrics{
		stockOpDuration: stockOpDuration,
	}

	metrics.RecordStockOpDuration("reserve", 50*time.Millisecond)
	metrics.RecordStockOpDuration("release", 100*time.Millisecond)

	reserveMetric := &dto.Metric{}
	observer := stockOpDuration.WithLabelValues("reserve")
	if err := observer.(prometheus.Histogram).Write(reserveMetric); err != nil {
		t.Fatalf("failed to write reserve metric: %v", err)
	}

	if reserveMetric.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected 1 sample for reserve, got %d", reserveMetric.Histogram.GetSampleCount())
	}
}

func TestNilFulfillmentMetricsIsNoop(t *testing.T) {
	var metrics *FulfillmentMetrics

	// Все методы на nil-значении должны быть безопасны.
	metrics.RecordOrderCreated()
	metrics.RecordOrderUpdated()
	metrics.RecordOrderDeleted()
	metrics.RecordOrderCompleted()
	metrics.RecordOrderCancelled()
	metrics.RecordReservationFailed()
	metrics.RecordReservationReleased()
	metrics.RecordFulfillmentDuration(time.Second)
	metrics.RecordStockOpDuration("reserve", time.Second)
}

func TestOrderLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()

	pendingOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_order_lifecycle_pending",
		Help: "Test gauge",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_order_lifecycle_created",
		Help: "Test counter",
	})
	ordersCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_order_lifecycle_completed",
		Help: "Test counter",
	})

	reg.MustRegister(pendingOrders, ordersCreated, ordersCompleted)

	metrics := &FulfillmentMetrics{
		pendingOrders:   pendingOrders,
		ordersCreated:   ordersCreated,
		ordersCompleted: ordersCompleted,
	}

	metrics.RecordOrderCreated() // pending: 1
	metrics.RecordOrderCreated() // pending: 2
	metrics.RecordOrderCreated() // pending: 3

	metrics.RecordOrderCompleted() // pending: 2
	metrics.RecordOrderCompleted() // pending: 1

	gaugeMetric := &dto.Metric{}
	if err := pendingOrders.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected 1 pending order, got %f", gaugeMetric.Gauge.GetValue())
	}

	startedMetric := &dto.Metric{}
	if err := ordersCreated.Write(startedMetric); err != nil {
		t.Fatalf("failed to write created metric: %v", err)
	}

	if startedMetric.Counter.GetValue() != 3.0 {
		t.Errorf("expected 3 created orders, got %f", startedMetric.Counter.GetValue())
	}

	completedMetric := &dto.Metric{}
	if err := ordersCompleted.Write(completedMetric); err != nil {
		t.Fatalf("failed to write completed metric: %v", err)
	}

	if completedMetric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 completed orders, got %f", completedMetric.Counter.GetValue())
	}
}
