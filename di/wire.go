//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"fair/config"
	"fair/infras/jwt"
	"fair/infras/kafka"
	"fair/infras/metrics"
	"fair/infras/otel"
	"fair/infras/postgres"
	"fair/infras/redis"
	"fair/infras/s3"
	authService "fair/internal/domains/auth/service"
	boothRepository "fair/internal/domains/booth/repository"
	boothService "fair/internal/domains/booth/service"
	exhibitorRepository "fair/internal/domains/exhibitor/repository"
	exhibitorService "fair/internal/domains/exhibitor/service"
	reservationService "fair/internal/domains/reservation/service"
	reservationStore "fair/internal/domains/reservation/store"
	statsService "fair/internal/domains/stats/service"
	transactionRepository "fair/internal/domains/transaction/repository"
	transactionService "fair/internal/domains/transaction/service"
	userRepository "fair/internal/domains/user/repository"
	userService "fair/internal/domains/user/service"
	authHandler "fair/internal/handlers/auth"
	boothHandler "fair/internal/handlers/booth"
	exhibitorHandler "fair/internal/handlers/exhibitor"
	reservationHandler "fair/internal/handlers/reservation"
	statsHandler "fair/internal/handlers/stats"
	transactionHandler "fair/internal/handlers/transaction"
	userHandler "fair/internal/handlers/user"
	"fair/permissions"
	"fair/shared/cache"
	"fair/transport/http"
	"fair/transport/http/middleware"
	"fair/transport/http/router"
	"fair/transport/worker"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	userRepository.New,
	exhibitorRepository.New,
	boothRepository.New,
	transactionRepository.New,
	reservationStore.NewPostgres,
)

var reservationDomain = wire.NewSet(
	reservationService.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	boothService.New,
	exhibitorService.New,
	transactionService.New,
	statsService.New,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	boothHandler.New,
	exhibitorHandler.New,
	reservationHandler.New,
	transactionHandler.New,
	statsHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		metrics.New,
		sharedHelpers,
		reservationStore.NewPostgres,
		reservationDomain,
		worker.New,
	)

	return &worker.Worker{}
}
