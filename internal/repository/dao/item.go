package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemCompleted    = errors.New("item raffle is already completed")
	ErrNotEnoughTickets = errors.New("not enough tickets left")
)

type Item struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"not null"`
	Category     string  `gorm:"not null;index"`
	Price        float64 `gorm:"not null"`
	TicketPrice  float64 `gorm:"not null"`
	TicketsTotal int     `gorm:"not null"`
	TicketsSold  int     `gorm:"not null;default:0"`
	Status       string  `gorm:"not null;default:active;index"` // "active" or "completed"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemQuery narrows FindAll. Order must be one of the Order* constants.
type ItemQuery struct {
	Search   string
	Category string
	Status   string
	Order    string
}

const (
	OrderNewest    = "created_at DESC, id DESC"
	OrderPriceAsc  = "price ASC, id ASC"
	OrderPriceDesc = "price DESC, id ASC"
	OrderProgress  = "COALESCE(CAST(tickets_sold AS REAL) / NULLIF(tickets_total, 0), 0) DESC, id ASC"
)

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type ItemStats struct {
	Active      int64
	Completed   int64
	TicketsSold int64
	Revenue     float64
}

type ItemDAO struct {
	db *gorm.DB
}

func NewItemDAO(db *gorm.DB) *ItemDAO {
	return &ItemDAO{
		db: db,
	}
}

func (d *ItemDAO) Insert(ctx context.Context, item Item) (Item, error) {
	if result := d.db.WithContext(ctx).Create(&item); result.Error != nil {
		return Item{}, result.Error
	}

	return item, nil
}

func (d *ItemDAO) FindByID(ctx context.Context, id uint) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}

		return Item{}, result.Error
	}

	return item, nil
}

func (d *ItemDAO) FindAll(ctx context.Context, q ItemQuery) ([]Item, error) {
	var items []Item

	query := d.db.WithContext(ctx)
	if q.Search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	order := q.Order
	if order == "" {
		order = OrderNewest
	}

	if result := query.Order(order).Find(&items); result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *ItemDAO) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	result := d.db.WithContext(ctx).Model(&Item{}).Distinct().Order("category").Pluck("category", &categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

// SellTickets adds n sold tickets in a single conditional UPDATE and completes the item once it is sold out.
func (d *ItemDAO) SellTickets(ctx context.Context, id uint, n int) (Item, error) {
	result := d.db.WithContext(ctx).Model(&Item{}).
		Where("id = ? AND status = ? AND tickets_sold + ? <= tickets_total", id, "active", n).
		Updates(map[string]any{
			"tickets_sold": gorm.Expr("tickets_sold + ?", n),
			"status":       gorm.Expr("CASE WHEN tickets_sold + ? >= tickets_total THEN ? ELSE status END", n, "completed"),
		})
	if result.Error != nil {
		return Item{}, result.Error
	}

	if result.RowsAffected == 0 {
		item, err := d.FindByID(ctx, id)
		if err != nil {
			return Item{}, err
		}
		if item.Status == "completed" {
			return Item{}, ErrItemCompleted
		}

		return Item{}, ErrNotEnoughTickets
	}

	return d.FindByID(ctx, id)
}

func (d *ItemDAO) Stats(ctx context.Context) (ItemStats, error) {
	var stats ItemStats

	result := d.db.WithContext(ctx).Model(&Item{}).Select(
		"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
			"COALESCE(SUM(tickets_sold), 0) AS tickets_sold, "+
			"COALESCE(SUM(tickets_sold * ticket_price), 0) AS revenue",
		"active", "completed",
	).Scan(&stats)
	if result.Error != nil {
		return ItemStats{}, result.Error
	}

	return stats, nil
}
