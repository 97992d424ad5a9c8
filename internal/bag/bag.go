package bag

import "sort"

// Bag maps line keys to quantities. A stored quantity is always at least 1.
type Bag map[string]int

func New() Bag { return Bag{} }

// Add merges qty into the line. Quantities below 1 are raised to 1.
func (b Bag) Add(key string, qty int) {
	if qty < 1 {
		qty = 1
	}
	b[key] += qty
}

// Set replaces the line quantity; qty <= 0 removes the line.
func (b Bag) Set(key string, qty int) {
	if qty <= 0 {
		delete(b, key)
		return
	}
	b[key] = qty
}

func (b Bag) Remove(key string) {
	delete(b, key)
}

func (b Bag) Quantity(key string) int { return b[key] }

func (b Bag) IsEmpty() bool { return len(b) == 0 }

// Keys returns the line keys in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
