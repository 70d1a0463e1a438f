package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository"
	"github.com/vietanh2810/raffle-web/internal/repository/dao"
	"github.com/vietanh2810/raffle-web/internal/service"
)

func newUserCmd(cc *cliContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		email    string
		password string
		admin    bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, or an admin with --admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := request.SignupRequest{Email: email, Password: password}
			if err := req.Validate(); err != nil {
				return err
			}

			svc := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(cc.db)))

			var (
				user domain.User
				err  error
			)
			if admin {
				user, err = svc.SignupAdmin(cmd.Context(), req.Form())
			} else {
				user, err = svc.Signup(cmd.Context(), req.Form())
			}
			if err != nil {
				return fmt.Errorf("svc.Signup -> %w", err)
			}

			cmd.Printf("created %s #%s (%s)\n", user.Role, user.UserNumber, user.Email)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "email of the new user")
	createCmd.Flags().StringVar(&password, "password", "", "password of the new user")
	createCmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(cc.db)))

			users, err := svc.ListUsers(cmd.Context(), domain.UserStatus(status))
			if err != nil {
				return fmt.Errorf("svc.ListUsers -> %w", err)
			}

			for _, u := range users {
				cmd.Printf("%d\t%s\t%s\t%s\t%s\n", u.ID, u.UserNumber, u.Email, u.Role, u.Status)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "only list users with this status")

	userCmd.AddCommand(createCmd, listCmd)

	return userCmd
}
