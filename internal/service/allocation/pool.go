package allocation

import "delivery-allocation/internal/domain"

// orderPool holds a warehouse's unassigned orders in their original order.
// Removal is by ID and never reorders the survivors.
type orderPool struct {
	orders  []domain.Order
	index   map[domain.OrderID]int
	removed []bool
	live    int
}

func newOrderPool(orders []domain.Order) *orderPool {
	p := &orderPool{
		orders:  append([]domain.Order(nil), orders...),
		index:   make(map[domain.OrderID]int, len(orders)),
		removed: make([]bool, len(orders)),
		live:    len(orders),
	}
	for i, o := range p.orders {
		p.index[o.ID] = i
	}
	return p
}

func (p *orderPool) Len() int { return p.live }

func (p *orderPool) Empty() bool { return p.live == 0 }

// Available returns the remaining orders.
func (p *orderPool) Available() []domain.Order {
	out := make([]domain.Order, 0, p.live)
	for i, o := range p.orders {
		if !p.removed[i] {
			out = append(out, o)
		}
	}
	return out
}

// Remove drops the given orders and returns how many were present.
func (p *orderPool) Remove(ids []domain.OrderID) int {
	n := 0
	for _, id := range ids {
		i, ok := p.index[id]
		if !ok || p.removed[i] {
			continue
		}
		p.removed[i] = true
		p.live--
		n++
	}
	return n
}
