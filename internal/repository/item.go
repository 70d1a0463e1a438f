package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository/dao"
)

var (
	ErrItemNotFound     = dao.ErrItemNotFound
	ErrItemCompleted    = dao.ErrItemCompleted
	ErrNotEnoughTickets = dao.ErrNotEnoughTickets
)

type ItemDAO interface {
	Insert(ctx context.Context, item dao.Item) (dao.Item, error)
	FindByID(ctx context.Context, id uint) (dao.Item, error)
	FindAll(ctx context.Context, q dao.ItemQuery) ([]dao.Item, error)
	Categories(ctx context.Context) ([]string, error)
	SellTickets(ctx context.Context, id uint, n int) (dao.Item, error)
	Stats(ctx context.Context) (dao.ItemStats, error)
}

type ItemRepository struct {
	dao ItemDAO
}

func NewItemRepository(dao ItemDAO) *ItemRepository {
	return &ItemRepository{
		dao: dao,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.dao.Insert(ctx, dao.Item{
		Name:         item.Name,
		Category:     item.Category,
		Price:        item.Price,
		TicketPrice:  item.TicketPrice,
		TicketsTotal: item.TicketsTotal,
		TicketsSold:  item.TicketsSold,
		Status:       string(item.Status),
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// FindForAdmin applies the admin table filter.
func (r *ItemRepository) FindForAdmin(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	return r.findAll(ctx, dao.ItemQuery{Search: f.SearchTerm, Status: f.Status})
}

// FindForPublic applies the visitor filter. Unknown sort keys fall back to newest first.
func (r *ItemRepository) FindForPublic(ctx context.Context, f domain.PublicFilter) ([]domain.Item, error) {
	return r.findAll(ctx, dao.ItemQuery{Search: f.SearchTerm, Category: f.Category, Order: orderFor(f.SortBy)})
}

func (r *ItemRepository) findAll(ctx context.Context, q dao.ItemQuery) ([]domain.Item, error) {
	found, err := r.dao.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	items := make([]domain.Item, 0, len(found))
	for _, i := range found {
		items = append(items, r.daoToDomain(i))
	}

	return items, nil
}

func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	categories, err := r.dao.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Categories -> %w", err)
	}

	return categories, nil
}

func (r *ItemRepository) SellTickets(ctx context.Context, id uint, n int) (domain.Item, error) {
	updated, err := r.dao.SellTickets(ctx, id, n)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.SellTickets -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

// Stats fills the item part of the dashboard; Users is left for the caller.
func (r *ItemRepository) Stats(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := r.dao.Stats(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	return domain.DashboardStats{
		ActiveItems:    stats.Active,
		CompletedItems: stats.Completed,
		TicketsSold:    stats.TicketsSold,
		TicketRevenue:  stats.Revenue,
	}, nil
}

func orderFor(sortBy string) string {
	switch sortBy {
	case domain.SortPriceAsc:
		return dao.OrderPriceAsc
	case domain.SortPriceDesc:
		return dao.OrderPriceDesc
	case domain.SortProgress:
		return dao.OrderProgress
	default:
		return dao.OrderNewest
	}
}

func (r *ItemRepository) daoToDomain(i dao.Item) domain.Item {
	return domain.Item{
		ID:           i.ID,
		Name:         i.Name,
		Category:     i.Category,
		Price:        i.Price,
		TicketPrice:  i.TicketPrice,
		TicketsTotal: i.TicketsTotal,
		TicketsSold:  i.TicketsSold,
		Status:       domain.ItemStatus(i.Status),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
