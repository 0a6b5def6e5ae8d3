package redisx

import "time"

const (
	// Кеш рейтинга клиентов: report:top_customers:{limit} -> JSON массив
	KeyTopCustomers = "report:top_customers:%d"

	// Кеш рейтинга продавцов: report:top_sellers:{limit} -> JSON массив
	KeyTopSellers = "report:top_sellers:%d"
)

var (
	TTLReportCache = 1 * time.Minute
)
