package domain

import (
	"fmt"
	"time"
)

// ItemKindFlower is the only purchasable item kind the shop currently sells.
// The cart keys items by (id, kind) so further kinds can be added later.
const ItemKindFlower = "flower"

type CartItem struct {
	FlowerID int64   `bson:"flower_id" json:"flower_id"`
	Kind     string  `bson:"kind" json:"kind"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Photo    string  `bson:"photo" json:"photo"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// Matches reports whether two items refer to the same catalog entry.
func (i CartItem) Matches(other CartItem) bool {
	return i.FlowerID == other.FlowerID && i.Kind == other.Kind
}

type Bouquet struct {
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Items       []CartItem `bson:"items" json:"items"`
}

// Cart is the session-scoped aggregate: one or more bouquets of items plus a
// derived total. It always contains at least one bouquet.
type Cart struct {
	SessionID string    `bson:"session_id" json:"session_id"`
	Bouquets  []Bouquet `bson:"bouquets" json:"bouquets"`
	Total     float64   `bson:"total" json:"total"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func NewCart(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		Bouquets:  []Bouquet{{Name: BouquetName(0), Items: []CartItem{}}},
		Total:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BouquetName derives a bouquet's display name from its position. Names are
// never stored truth; they are recomputed whenever the bouquet list changes.
func BouquetName(position int) string {
	return fmt.Sprintf("Bouquet %d", position+1)
}

// RecalculateTotal recomputes the derived total from scratch.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, b := range c.Bouquets {
		for _, item := range b.Items {
			total += item.Price * float64(item.Quantity)
		}
	}
	c.Total = total
}

// RenumberBouquets reassigns sequential names after a structural change.
func (c *Cart) RenumberBouquets() {
	for i := range c.Bouquets {
		c.Bouquets[i].Name = BouquetName(i)
	}
}

// ItemCount returns the total quantity across all bouquets.
func (c *Cart) ItemCount() int {
	count := 0
	for _, b := range c.Bouquets {
		for _, item := range b.Items {
			count += item.Quantity
		}
	}
	return count
}

// IsEmpty reports whether every bouquet holds no items.
func (c *Cart) IsEmpty() bool {
	for _, b := range c.Bouquets {
		if len(b.Items) > 0 {
			return false
		}
	}
	return true
}

// Flatten collects every item from every bouquet in display order.
func (c *Cart) Flatten() []CartItem {
	var items []CartItem
	for _, b := range c.Bouquets {
		items = append(items, b.Items...)
	}
	return items
}
