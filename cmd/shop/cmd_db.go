package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/config"
	_ "github.com/shashiranjanraj/kashvi-shop/database/migrations"
	"github.com/shashiranjanraj/kashvi-shop/database/seeders"
	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

// Services that own a database.
var dbServices = []string{config.ServiceUser, config.ServiceProduct, config.ServiceOrder}

var migrateService string

func init() {
	for _, cmd := range []*cobra.Command{migrateCmd, migrateRollbackCmd, migrateStatusCmd} {
		cmd.Flags().StringVar(&migrateService, "service", "", "only this service (default: user, product and order)")
	}
}

// eachDB opens every selected service database in turn and hands it to fn.
func eachDB(fn func(service string, db *gorm.DB) error) error {
	targets := dbServices
	if migrateService != "" {
		if migrateService == config.ServiceFrontend || !config.ValidService(migrateService) {
			return fmt.Errorf("service %q has no database", migrateService)
		}
		targets = []string{migrateService}
	}

	for _, service := range targets {
		db, err := database.Connect(service)
		if errors.Is(err, database.ErrMemoryDriver) {
			return errors.New("DB_DRIVER=memory has nothing to migrate")
		}
		if err != nil {
			return fmt.Errorf("%s: %w", service, err)
		}

		err = fn(service, db)
		_ = database.Close(db)
		if err != nil {
			return fmt.Errorf("%s: %w", service, err)
		}
	}
	return nil
}

// shop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachDB(func(service string, db *gorm.DB) error {
			fmt.Printf("Running %s migrations…\n", service)
			return migration.New(db, service).Run()
		})
	},
}

// shop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachDB(func(service string, db *gorm.DB) error {
			fmt.Printf("Rolling back %s…\n", service)
			return migration.New(db, service).Rollback()
		})
	},
}

// shop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return eachDB(func(service string, db *gorm.DB) error {
			fmt.Printf("[%s]\n", service)
			return migration.New(db, service).Status()
		})
	},
}

// shop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(config.ServiceProduct)
		if errors.Is(err, database.ErrMemoryDriver) {
			return errors.New("DB_DRIVER=memory seeds the catalog when the product service starts")
		}
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := migration.New(db, config.ServiceProduct).Run(); err != nil {
			return err
		}

		n, err := seeders.SeedCatalog(cmd.Context(), repositories.NewGormProductRepository(db))
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d products.\n", n)
		return nil
	},
}
