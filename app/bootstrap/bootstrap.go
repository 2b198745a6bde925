// Package bootstrap wires one shop service from configuration: storage,
// services, peer clients and routes.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-shop/app/clients"
	"github.com/shashiranjanraj/kashvi-shop/app/controllers"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/app/routes"
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/database/seeders"
	"github.com/shashiranjanraj/kashvi-shop/pkg/app"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/cache"
	"github.com/shashiranjanraj/kashvi-shop/pkg/database"
	"github.com/shashiranjanraj/kashvi-shop/pkg/event"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
	"github.com/shashiranjanraj/kashvi-shop/pkg/router"
	"github.com/shashiranjanraj/kashvi-shop/pkg/session"

	// Registers every service's migration group.
	_ "github.com/shashiranjanraj/kashvi-shop/database/migrations"
)

// Service is a wired application plus the resources it holds open.
type Service struct {
	*app.Application
	closers []func() error
}

// Close releases databases and cache connections in reverse order.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func (s *Service) onClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Build wires the named service ("user", "product", "order" or "frontend").
func Build(ctx context.Context, name string) (*Service, error) {
	if !config.ValidService(name) {
		return nil, fmt.Errorf("unknown service %q (want one of %v)", name, config.Services())
	}
	logger.SetService(name)

	svc := &Service{Application: app.New(name)}
	var err error
	switch name {
	case config.ServiceUser:
		err = buildUser(ctx, svc)
	case config.ServiceProduct:
		err = buildProduct(ctx, svc)
	case config.ServiceOrder:
		err = buildOrder(ctx, svc)
	case config.ServiceFrontend:
		buildFrontend(ctx, svc)
	}
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}

// OpenDB connects to the service's database and, when DB_AUTO_MIGRATE is
// set, runs its pending migrations. A nil *gorm.DB with a nil error means
// DB_DRIVER=memory.
func OpenDB(service string) (*gorm.DB, error) {
	db, err := database.Connect(service)
	if errors.Is(err, database.ErrMemoryDriver) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if config.AutoMigrate() {
		runner := migration.New(db, service)
		runner.Out = io.Discard
		if err := runner.Run(); err != nil && !errors.Is(err, migration.ErrNoMigrations) {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate %s: %w", service, err)
		}
	}
	return db, nil
}

func tokenManager() *auth.Manager {
	return auth.NewManager(config.JWTSecret(), config.JWTTTL())
}

func buildUser(_ context.Context, svc *Service) error {
	db, err := OpenDB(config.ServiceUser)
	if err != nil {
		return err
	}

	var users repositories.UserRepository = repositories.NewMemoryUserRepository()
	if db != nil {
		svc.onClose(func() error { return database.Close(db) })
		users = repositories.NewGormUserRepository(db)
	}

	authController := controllers.NewAuthController(services.NewAuthService(users, tokenManager()))
	svc.Routes(func(r *router.Router) {
		routes.RegisterUser(r, authController)
	})
	return nil
}

func productRepository(svc *Service) (repositories.ProductRepository, error) {
	db, err := OpenDB(config.ServiceProduct)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return repositories.NewMemoryProductRepository(), nil
	}
	svc.onClose(func() error { return database.Close(db) })
	return repositories.NewGormProductRepository(db), nil
}

func buildProduct(ctx context.Context, svc *Service) error {
	products, err := productRepository(svc)
	if err != nil {
		return err
	}

	// A memory catalog starts empty on every boot; a fresh database does too.
	if _, err := seeders.SeedCatalog(ctx, products); err != nil {
		return err
	}

	productController := controllers.NewProductController(services.NewCatalogService(products))
	svc.Routes(func(r *router.Router) {
		routes.RegisterProduct(r, productController)
	})
	return nil
}

func buildOrder(_ context.Context, svc *Service) error {
	db, err := OpenDB(config.ServiceOrder)
	if err != nil {
		return err
	}

	var orders repositories.OrderRepository = repositories.NewMemoryOrderRepository()
	if db != nil {
		svc.onClose(func() error { return database.Close(db) })
		orders = repositories.NewGormOrderRepository(db)
	}

	bus := event.NewBus()
	services.RegisterOrderListeners(bus)

	catalog := clients.NewProductClient(config.ProductServiceURL(), config.ProductClientTimeout())
	orderController := controllers.NewOrderController(services.NewOrderService(orders, catalog, bus))
	tokens := tokenManager()

	svc.Routes(func(r *router.Router) {
		routes.RegisterOrder(r, orderController, tokens)
	})
	return nil
}

func buildFrontend(ctx context.Context, svc *Service) {
	timeout := config.ProductClientTimeout()

	store := cache.Open(ctx)
	if rs, ok := store.(*cache.RedisStore); ok {
		svc.onClose(rs.Close)
	}
	sessions := session.NewManager(store, session.DefaultOptions())

	frontend := controllers.NewFrontendController(
		clients.NewProductClient(config.ProductServiceURL(), timeout),
		clients.NewUserClient(config.UserServiceURL(), timeout),
		clients.NewOrderClient(config.OrderServiceURL(), timeout),
		config.IsProduction(),
	)

	svc.Use(sessions.Middleware())
	svc.Routes(func(r *router.Router) {
		routes.RegisterFrontend(r, frontend)
	})
}
