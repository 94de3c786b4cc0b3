package domain

import "time"

// DefaultSize is used when a client does not specify a size for a cart line.
const DefaultSize = "M"

type CartLine struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Size      string    `bson:"size" json:"size"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	UnitPrice float64   `bson:"unit_price" json:"unit_price"`
	Name      string    `bson:"name" json:"name"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Cart is the per-user aggregate: lines in insertion order plus totals
// derived from them. UnitPrice and Name on each line are snapshots taken
// when the line was added; later catalog changes do not touch them.
type Cart struct {
	ID         string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string     `bson:"user_id" json:"user_id"`
	Lines      []CartLine `bson:"items" json:"items"`
	TotalItems int        `bson:"total_items" json:"total_items"`
	TotalPrice float64    `bson:"total_price" json:"total_price"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// Recompute rederives TotalItems and TotalPrice from the current lines.
// Totals are always recomputed in full after a mutation, never patched
// incrementally, so they cannot drift from the lines.
func (c *Cart) Recompute() {
	items := 0
	price := 0.0
	for _, l := range c.Lines {
		items += l.Quantity
		price += l.UnitPrice * float64(l.Quantity)
	}
	c.TotalItems = items
	c.TotalPrice = price
}

// FindLine returns the index of the line matching (productID, size) exactly,
// or -1. Matching is exact string equality, no normalization.
func (c *Cart) FindLine(productID, size string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}

// MergeLine increments the quantity of an existing (productID, size) line or
// appends the line when none matches.
func (c *Cart) MergeLine(line CartLine) {
	if i := c.FindLine(line.ProductID, line.Size); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return
	}
	c.Lines = append(c.Lines, line)
}

// RemoveLine removes the line at index i, preserving the order of the rest.
func (c *Cart) RemoveLine(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// EmptyCart is the representation returned when no cart is persisted for the
// user. Absence of a cart is a valid state, not an error.
func EmptyCart(userID string) *Cart {
	return &Cart{
		UserID: userID,
		Lines:  []CartLine{},
	}
}
