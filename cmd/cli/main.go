package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/db"
	"github.com/vietanh2810/raffle-web/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliContext struct {
	configPath string
	conf       *config.AppConfig
	db         *gorm.DB
}

func newRootCmd() *cobra.Command {
	cc := &cliContext{}

	root := &cobra.Command{
		Use:          "raffle-cli",
		Short:        "Administer the raffle database",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cc.open()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return cc.close()
		},
	}
	root.PersistentFlags().StringVar(&cc.configPath, "config", "./cmd/app/config.yml", "path to the config file")

	root.AddCommand(newMigrateCmd(cc), newUserCmd(cc), newItemCmd(cc))

	return root
}

func (cc *cliContext) open() error {
	conf, err := config.Load(cc.configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}
	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	// db.Open migrates the schema.
	conn, err := db.Open(conf.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	cc.conf = conf
	cc.db = conn

	return nil
}

func (cc *cliContext) close() error {
	if cc.db == nil {
		return nil
	}

	sqlDB, err := cc.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func newMigrateCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("schema is up to date (%s)\n", cc.conf.Database.Driver)
			return nil
		},
	}
}
