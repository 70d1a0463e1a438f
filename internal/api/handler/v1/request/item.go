package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/raffle-web/internal/domain"
)

type CreateItemRequest struct {
	Name         string  `json:"name" form:"name"`
	Category     string  `json:"category" form:"category"`
	Price        float64 `json:"price" form:"price"`
	TicketPrice  float64 `json:"ticketPrice" form:"ticketPrice"`
	TicketsTotal int     `json:"ticketsTotal" form:"ticketsTotal"`
}

func (req *CreateItemRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&req.Category, validation.Required, validation.Length(2, 40)),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.TicketPrice, validation.Required, validation.Min(0.01)),
		validation.Field(&req.TicketsTotal, validation.Required, validation.Min(1), validation.Max(1_000_000)),
	)
}

func (req *CreateItemRequest) Item() domain.Item {
	return domain.Item{
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		TicketPrice:  req.TicketPrice,
		TicketsTotal: req.TicketsTotal,
	}
}

type SellTicketsRequest struct {
	Count int `json:"count" form:"count"`
}

func (req *SellTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Count, validation.Required, validation.Min(1)),
	)
}

type UserStatusRequest struct {
	Status string `json:"status" form:"status"`
}

func (req *UserStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(string(domain.UserActive), string(domain.UserSuspended))),
	)
}

// PublicFilter drops sort keys the listing does not know.
func PublicFilter(f domain.PublicFilter) domain.PublicFilter {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	switch f.SortBy {
	case domain.SortNewest, domain.SortPriceAsc, domain.SortPriceDesc, domain.SortProgress:
	default:
		f.SortBy = domain.SortNewest
	}
	return f
}

// ItemFilter drops unknown statuses.
func ItemFilter(f domain.ItemFilter) domain.ItemFilter {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	if f.Status != string(domain.ItemActive) && f.Status != string(domain.ItemCompleted) {
		f.Status = ""
	}
	return f
}
