package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kafanica/kafanica-backend/internal/domain"
)

// ItemSales aggregates one drink across every settled tab.
type ItemSales struct {
	Name          string          `json:"name"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// Report is the daily-sales summary over the history archive.
type Report struct {
	Items           []ItemSales     `json:"items"`
	TotalDrinksSold int             `json:"totalDrinksSold"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}

// Build computes the sales report from the archive's current contents. It is
// a pure function: recomputed on every call, no stored state.
func Build(history []domain.GuestTab) Report {
	type bucket struct {
		sales ItemSales
		seen  int
	}

	byDrink := make(map[string]*bucket)
	order := 0
	totalDrinks := 0
	totalRevenue := decimal.Zero

	for _, tab := range history {
		for _, line := range tab.Orders {
			lineRevenue := line.LineTotal()
			totalDrinks += line.Quantity
			totalRevenue = totalRevenue.Add(lineRevenue)

			b, ok := byDrink[line.DrinkID]
			if !ok {
				b = &bucket{
					sales: ItemSales{Name: line.Name, TotalRevenue: decimal.Zero},
					seen:  order,
				}
				order++
				byDrink[line.DrinkID] = b
			}
			b.sales.TotalQuantity += line.Quantity
			b.sales.TotalRevenue = b.sales.TotalRevenue.Add(lineRevenue)
		}
	}

	buckets := make([]*bucket, 0, len(byDrink))
	for _, b := range byDrink {
		buckets = append(buckets, b)
	}
	// Descending by quantity; ties keep first-encountered order.
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].sales.TotalQuantity != buckets[j].sales.TotalQuantity {
			return buckets[i].sales.TotalQuantity > buckets[j].sales.TotalQuantity
		}
		return buckets[i].seen < buckets[j].seen
	})

	items := make([]ItemSales, 0, len(buckets))
	for _, b := range buckets {
		items = append(items, b.sales)
	}

	return Report{
		Items:           items,
		TotalDrinksSold: totalDrinks,
		TotalRevenue:    totalRevenue,
	}
}
