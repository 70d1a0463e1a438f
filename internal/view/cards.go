package view

import (
	"github.com/vietanh2810/raffle-web/internal/domain"
)

func AccountStats(u domain.User) []StatCard {
	return []StatCard{
		{Title: "Balance", Value: Money(u.Balance)},
		{Title: "Raffle points", Value: Number(u.RafflePoints)},
		{Title: "Status", Value: string(u.Status), Hint: "Member #" + u.UserNumber},
	}
}

func DashboardStats(s domain.DashboardStats) []StatCard {
	return []StatCard{
		{Title: "Active raffles", Value: Number(s.ActiveItems)},
		{Title: "Completed raffles", Value: Number(s.CompletedItems)},
		{Title: "Tickets sold", Value: Number(s.TicketsSold)},
		{Title: "Ticket revenue", Value: Money(s.TicketRevenue)},
		{Title: "Users", Value: Number(s.Users)},
	}
}
