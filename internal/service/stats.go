package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/raffle-web/internal/domain"
)

type ItemStatsRepository interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type StatsService struct {
	items ItemStatsRepository
	users UserCounter
}

func NewStatsService(items ItemStatsRepository, users UserCounter) *StatsService {
	return &StatsService{
		items: items,
		users: users,
	}
}

func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := s.items.Stats(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.items.Stats -> %w", err)
	}

	stats.Users, err = s.users.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.users.Count -> %w", err)
	}

	return stats, nil
}
