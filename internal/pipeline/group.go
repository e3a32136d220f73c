package pipeline

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcallahan/adscrub/internal/domain"
)

// tabOrder is one real order/tab after the order-level collapse, before name
// splitting.
type tabOrder struct {
	Name      string
	Email     string
	Phone     string
	EventTime time.Time
	Value     decimal.Decimal
	Key       string
}

// groupOrders collapses raw tab rows into one record per real transaction,
// keyed by (calendar date, order number, location). POS exports emit one row
// per payment line, so a single tab shows up several times; the group keeps
// the longest non-empty identity strings as the most complete values, the
// earliest timestamp, and the summed amount.
func groupOrders(rows []domain.TabRow) []tabOrder {
	orders := make([]tabOrder, 0, len(rows))
	byKey := make(map[string]int, len(rows))

	for _, row := range rows {
		eventTime := row.EventTime()
		key := strings.Join([]string{
			eventTime.Format("2006-01-02"),
			row.OrderNumber,
			row.Location,
		}, "\x1f")

		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(orders)
			orders = append(orders, tabOrder{
				Name:      row.TabName,
				Email:     row.Email,
				Phone:     row.Phone,
				EventTime: eventTime,
				Value:     row.Amount,
				Key:       key,
			})
			continue
		}

		order := &orders[idx]
		order.Name = longer(order.Name, row.TabName)
		order.Email = longer(order.Email, row.Email)
		order.Phone = longer(order.Phone, row.Phone)
		order.EventTime = earlier(order.EventTime, eventTime)
		order.Value = order.Value.Add(row.Amount)
	}

	for i := range orders {
		orders[i].Value = orders[i].Value.Round(2)
	}
	return orders
}

// longer picks the longest string as the heuristic "most complete" value.
// Ties keep the first seen.
func longer(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

// earlier picks the earlier timestamp, treating zero as missing.
func earlier(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if b.Before(a) {
		return b
	}
	return a
}
