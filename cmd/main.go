package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sibarmoto/motoparts-backend/config"
	"github.com/sibarmoto/motoparts-backend/internal/auth"
	"github.com/sibarmoto/motoparts-backend/internal/cart"
	"github.com/sibarmoto/motoparts-backend/internal/catalog"
	"github.com/sibarmoto/motoparts-backend/internal/order"
	"github.com/sibarmoto/motoparts-backend/internal/payment"
	"github.com/sibarmoto/motoparts-backend/internal/user"
	"github.com/sibarmoto/motoparts-backend/pkg/httpserver"
	"github.com/sibarmoto/motoparts-backend/pkg/logger"
	"github.com/sibarmoto/motoparts-backend/pkg/postgres"
)

func main() {
	log := logger.NewLogger("debug", &logger.MainLogHook{})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configs: %v", err)
	}

	env, err := config.GetEnvironment()
	if err != nil {
		log.Fatalf(err.Error())
	}

	identityLog := logger.NewLogger(env.LogLvl, &auth.IdentityLogHook{})
	catalogLog := logger.NewLogger(env.LogLvl, &catalog.CatalogLogHook{})
	userLog := logger.NewLogger(env.LogLvl, &user.UserLogHook{})
	cartLog := logger.NewLogger(env.LogLvl, &cart.CartLogHook{})
	orderLog := logger.NewLogger(env.LogLvl, &order.OrderLogHook{})
	paymentLog := logger.NewLogger(env.LogLvl, &payment.PaymentLogHook{})
	gatewayLog := logger.NewLogger(env.LogLvl, &payment.GatewayLogHook{})

	postgresConfig := postgres.Config{
		Host:     env.PgHost,
		Port:     env.PgPort,
		Username: env.PgUser,
		Password: env.PgPassword,
		DBName:   env.PgDbName,
		SSLMode:  env.SSLMode,
		TimeZone: env.TimeZone,
	}

	db, err := postgres.NewConnection(postgresConfig, log)
	if err != nil {
		log.Fatalf("failed connection to db: %v", err)
	}

	if err := user.RunMigration(db); err != nil {
		log.Fatalf("failed user migration: %v", err)
	}
	if err := catalog.RunMigration(db); err != nil {
		log.Fatalf("failed catalog migration: %v", err)
	}
	if err := cart.RunMigration(db); err != nil {
		log.Fatalf("failed cart migration: %v", err)
	}
	if err := order.RunMigration(db); err != nil {
		log.Fatalf("failed order migration: %v", err)
	}

	identityAdapter := auth.NewIdentityAdapter(identityLog, env.IdentityHost, env.IdentityPort)
	gatewayAdapter := payment.NewGatewayAdapter(gatewayLog, env.GatewayHost, env.GatewayPort)

	resolver := catalog.NewResolver(db)

	userStorage := user.NewStorage(db)
	userService := user.NewService(userStorage, userLog)

	cartStorage := cart.NewStorage(db)
	cartService := cart.NewService(cartStorage, resolver, cartLog)

	orderStorage := order.NewStorage(db)
	orderService := order.NewService(orderStorage, userStorage, cartService, resolver, orderLog)

	paymentStorage := payment.NewStorage(db)
	paymentService := payment.NewService(paymentStorage, gatewayAdapter, cfg.Shop.Currency, paymentLog)

	router := gin.New()

	catalog.NewHandler(resolver, catalogLog).Register(router)
	user.NewHandler(userService, userLog, identityAdapter).Register(router)
	cart.NewHandler(cartService, cartLog, identityAdapter).Register(router)
	order.NewHandler(orderService, orderLog, identityAdapter).Register(router)
	payment.NewHandler(paymentService, paymentLog, identityAdapter).Register(router)

	server := new(httpserver.Server)

	go func() {
		if err := server.Run(cfg.Server.Port, router); err != nil {
			log.Fatalf("failed running server: %v", err)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	oscall := <-interrupt
	log.Infof("Shutdown server, %s", oscall)

	if err := server.Shutdown(context.Background()); err != nil {
		log.Errorf("Error occured on server shutting down: %v", err)
	}
}
