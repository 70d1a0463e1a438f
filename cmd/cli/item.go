package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/repository"
	"github.com/vietanh2810/raffle-web/internal/repository/dao"
	"github.com/vietanh2810/raffle-web/internal/service"
)

func newItemCmd(cc *cliContext) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage raffle items",
	}

	var req request.CreateItemRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Put a new item on sale",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := req.Validate(); err != nil {
				return err
			}

			// No hub runs in the CLI, so nothing is broadcast.
			svc := service.NewItemService(repository.NewItemRepository(dao.NewItemDAO(cc.db)), nil)

			item, err := svc.CreateItem(cmd.Context(), req.Item())
			if err != nil {
				return fmt.Errorf("svc.CreateItem -> %w", err)
			}

			cmd.Printf("created item %d %q, %d tickets\n", item.ID, item.Name, item.TicketsTotal)
			return nil
		},
	}
	createCmd.Flags().StringVar(&req.Name, "name", "", "item name")
	createCmd.Flags().StringVar(&req.Category, "category", "", "item category")
	createCmd.Flags().Float64Var(&req.Price, "price", 0, "item value")
	createCmd.Flags().Float64Var(&req.TicketPrice, "ticket-price", 0, "price of one ticket")
	createCmd.Flags().IntVar(&req.TicketsTotal, "tickets", 0, "number of tickets on sale")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("category")

	itemCmd.AddCommand(createCmd)

	return itemCmd
}
