// Package board groups a store's open orders into the five kanban buckets
// shown on the dashboard: today, tomorrow, upcoming, overdue and delivered
// orders still waiting on payment.
package board

import (
	"sort"
	"time"

	"github.com/comandahub/comanda-backend/internal/modules/order"
)

// Board holds one bucket per kanban column. Every not-yet-delivered order
// lands in exactly one of the four date buckets; DeliveredUnpaid collects
// delivered orders with an open payment regardless of date.
type Board struct {
	Today           []*order.Order `json:"today"`
	Tomorrow        []*order.Order `json:"tomorrow"`
	Next7Days       []*order.Order `json:"next7days"`
	Overdue         []*order.Order `json:"overdue"`
	DeliveredUnpaid []*order.Order `json:"delivered_unpaid"`
}

const isoDate = "2006-01-02"

// Partition buckets orders relative to today. Delivery dates are compared as
// ISO date strings, exactly as stored, with no timezone conversion. Buckets
// are rebuilt from scratch on every call.
func Partition(orders []*order.Order, today time.Time) *Board {
	todayStr := today.Format(isoDate)
	tomorrowStr := today.AddDate(0, 0, 1).Format(isoDate)

	b := &Board{
		Today:           []*order.Order{},
		Tomorrow:        []*order.Order{},
		Next7Days:       []*order.Order{},
		Overdue:         []*order.Order{},
		DeliveredUnpaid: []*order.Order{},
	}

	for _, o := range orders {
		if o.FulfillmentStatus == order.FulfillmentDelivered {
			if o.PaymentStatus == order.PaymentUnpaid {
				b.DeliveredUnpaid = append(b.DeliveredUnpaid, o)
			}
			continue
		}
		switch {
		case o.DeliveryDate == "" || o.DeliveryDate < todayStr:
			b.Overdue = append(b.Overdue, o)
		case o.DeliveryDate == todayStr:
			b.Today = append(b.Today, o)
		case o.DeliveryDate == tomorrowStr:
			b.Tomorrow = append(b.Tomorrow, o)
		default:
			b.Next7Days = append(b.Next7Days, o)
		}
	}

	sortBucket(b.Today)
	sortBucket(b.Tomorrow)
	sortBucket(b.Next7Days)
	sortBucket(b.Overdue)
	sortBucket(b.DeliveredUnpaid)
	return b
}

// sortBucket orders ascending by delivery time; orders without a time sort
// last, as if scheduled for 23:59.
func sortBucket(orders []*order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return timeKey(orders[i]) < timeKey(orders[j])
	})
}

func timeKey(o *order.Order) string {
	if o.DeliveryTime == "" {
		return "23:59"
	}
	return o.DeliveryTime
}
