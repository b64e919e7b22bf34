package cointax

import "slices"

// Lot represents a single acquisition of an asset, used for cost basis calculations.
type Lot struct {
	Acquired  Date
	Original  Quantity // quantity acquired
	Remaining Quantity // quantity not yet disposed
	UnitCost  Money    // cost per unit in the home currency
}

// CostBasis returns the basis of the remaining quantity.
func (l Lot) CostBasis() Money { return l.UnitCost.Mul(l.Remaining) }

// lots is an asset account's inventory, in insertion order.
type lots []Lot

// portion is the slice of a lot consumed by a single disposal.
type portion struct {
	Acquired Date
	Quantity Quantity
	UnitCost Money
}

// CostBasis returns the basis of the consumed quantity.
func (p portion) CostBasis() Money { return p.UnitCost.Mul(p.Quantity) }

// Quantity returns the total remaining quantity over all lots.
func (l lots) Quantity() Quantity {
	var total Quantity
	for _, current := range l {
		total = total.Add(current.Remaining)
	}
	return total
}

// CostBasis returns the total basis over all lots.
func (l lots) CostBasis() Money {
	var total Money
	for _, current := range l {
		total = total.Add(current.CostBasis())
	}
	return total
}

// order returns lot indexes in consumption order for the given method:
// by acquisition date, insertion order as tie-break. LIFO is the
// date-descending mirror with the same tie-break.
func (l lots) order(method CostingMethod) []int {
	indexes := make([]int, len(l))
	for i := range l {
		indexes[i] = i
	}
	slices.SortStableFunc(indexes, func(a, b int) int {
		da, db := l[a].Acquired, l[b].Acquired
		if da == db {
			return 0
		}
		older := da.Before(db)
		if method == LIFO {
			older = !older
		}
		if older {
			return -1
		}
		return 1
	})
	return indexes
}

// take consumes a quantity from the inventory using the given method.
//
// take is pure: it returns the consumed portions and the surviving inventory
// (in insertion order) without modifying the receiver. If the inventory does
// not cover the quantity, short is the uncovered remainder and the portions
// cover only what was available.
func (l lots) take(quantity Quantity, method CostingMethod) (taken []portion, rest lots, short Quantity) {
	rest = slices.Clone(l)
	for _, i := range rest.order(method) {
		if !quantity.IsPositive() {
			break
		}
		current := rest[i]
		if !current.Remaining.IsPositive() {
			// negative borrow lots are never consumed by a disposal
			continue
		}
		used := current.Remaining
		if quantity.LessThan(used) {
			used = quantity
		}
		taken = append(taken, portion{
			Acquired: current.Acquired,
			Quantity: used,
			UnitCost: current.UnitCost,
		})
		rest[i].Remaining = current.Remaining.Sub(used)
		quantity = quantity.Sub(used)
	}
	// drop exhausted lots, keeping insertion order
	rest = slices.DeleteFunc(rest, func(current Lot) bool {
		return current.Remaining.IsZero()
	})
	return taken, rest, quantity
}
