package domain

import "time"

type ItemStatus string

const (
	ItemActive    ItemStatus = "active"
	ItemCompleted ItemStatus = "completed"
)

// Item is the admin view of a raffle item.
// TicketsSold <= TicketsTotal is expected but not enforced here; the item service guards it on writes.
type Item struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	TicketPrice  float64    `json:"ticketPrice"`
	TicketsTotal int        `json:"ticketsTotal"`
	TicketsSold  int        `json:"ticketsSold"`
	Status       ItemStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PublicItem is what visitors see on the listing grid.
type PublicItem struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	TicketPrice float64    `json:"ticketPrice"`
	Progress    int        `json:"progress"`
	Status      ItemStatus `json:"status"`
}

func (i Item) TicketsLeft() int {
	if i.TicketsSold >= i.TicketsTotal {
		return 0
	}
	return i.TicketsTotal - i.TicketsSold
}

// Progress is the sold share of tickets as a percentage in [0,100].
func (i Item) Progress() int {
	if i.TicketsTotal <= 0 {
		return 0
	}
	p := i.TicketsSold * 100 / i.TicketsTotal
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

func (i Item) Public() PublicItem {
	return PublicItem{
		ID:          i.ID,
		Name:        i.Name,
		Category:    i.Category,
		Price:       i.Price,
		TicketPrice: i.TicketPrice,
		Progress:    i.Progress(),
		Status:      i.Status,
	}
}

func PublicItems(items []Item) []PublicItem {
	out := make([]PublicItem, 0, len(items))
	for _, i := range items {
		out = append(out, i.Public())
	}
	return out
}
