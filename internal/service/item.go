package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository"
)

var (
	ErrItemNotFound     = repository.ErrItemNotFound
	ErrItemCompleted    = repository.ErrItemCompleted
	ErrNotEnoughTickets = repository.ErrNotEnoughTickets
	ErrInvalidTickets   = errors.New("ticket count must be positive")
)

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	FindByID(ctx context.Context, id uint) (domain.Item, error)
	FindForAdmin(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error)
	FindForPublic(ctx context.Context, f domain.PublicFilter) ([]domain.Item, error)
	Categories(ctx context.Context) ([]string, error)
	SellTickets(ctx context.Context, id uint, n int) (domain.Item, error)
}

// ProgressPublisher is notified whenever an item's ticket progress changes.
type ProgressPublisher interface {
	Publish(item domain.PublicItem)
}

type ItemService struct {
	repo ItemRepository
	pub  ProgressPublisher
}

func NewItemService(repo ItemRepository, pub ProgressPublisher) *ItemService {
	return &ItemService{
		repo: repo,
		pub:  pub,
	}
}

func (s *ItemService) GetItem(ctx context.Context, id uint) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return item, nil
}

func (s *ItemService) ListPublic(ctx context.Context, f domain.PublicFilter) ([]domain.PublicItem, error) {
	items, err := s.repo.FindForPublic(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindForPublic -> %w", err)
	}

	return domain.PublicItems(items), nil
}

func (s *ItemService) ListAdmin(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	items, err := s.repo.FindForAdmin(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindForAdmin -> %w", err)
	}

	return items, nil
}

func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Categories -> %w", err)
	}

	return categories, nil
}

// CreateItem always starts a raffle as active with no tickets sold.
func (s *ItemService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.TicketsSold = 0
	item.Status = domain.ItemActive

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("item created", zap.Uint("item_id", created.ID), zap.String("name", created.Name))

	return created, nil
}

func (s *ItemService) SellTickets(ctx context.Context, id uint, n int) (domain.Item, error) {
	if n <= 0 {
		return domain.Item{}, ErrInvalidTickets
	}

	item, err := s.repo.SellTickets(ctx, id, n)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.SellTickets -> %w", err)
	}

	if s.pub != nil {
		s.pub.Publish(item.Public())
	}

	if item.Status == domain.ItemCompleted {
		zap.L().Info("item sold out", zap.Uint("item_id", item.ID), zap.Int("tickets", item.TicketsTotal))
	}

	return item, nil
}
