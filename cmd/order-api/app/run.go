package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/quangdm/freshcart-api/configs"
	"github.com/quangdm/freshcart-api/internal/adapter/cache"
	"github.com/quangdm/freshcart-api/internal/adapter/gateway"
	httpadapter "github.com/quangdm/freshcart-api/internal/adapter/http"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	"github.com/quangdm/freshcart-api/internal/adapter/kafka"
	"github.com/quangdm/freshcart-api/internal/adapter/queue"
	"github.com/quangdm/freshcart-api/internal/adapter/repo"
	"github.com/quangdm/freshcart-api/internal/logging"
	"github.com/quangdm/freshcart-api/internal/usecase"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	l := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq (fire-and-forget side effects)
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// init kafka (order status events)
	kprod, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, err
	}
	events := kafka.NewStatusPublisher(kprod, cfg.Kafka.TopicEvents)

	// payment gateway client
	gw, err := gateway.NewPayClient(cfg.Gateway.AppID, cfg.Gateway.BaseURL, cfg.Gateway.PrivateKeyPEM, cfg.Gateway.QueryTimeout)
	if err != nil {
		return nil, nil, err
	}

	// infra
	orderStore := repo.NewMySQLOrderStore(db)
	inventory := repo.NewMySQLInventoryRepo(db)
	addresses := repo.NewMySQLAddressRepo(db)
	cartStore := cache.NewRedisCartStore(rdb)
	detailCache := cache.NewRedisCache(rdb, 24*time.Hour)

	shippingFee := int64(cfg.Checkout.ShippingFeeCents)

	// use cases
	previewUC := usecase.NewPreviewOrder(inventory, cartStore, shippingFee)
	commitUC := usecase.NewCommitOrder(orderStore, addresses, cartStore, producer, shippingFee)
	startPayUC := usecase.NewStartPayment(orderStore, gw)
	reconcileUC := usecase.NewReconcilePayment(orderStore, gw, events, cfg.Gateway.PollInterval)
	finishUC := usecase.NewFinishOrder(orderStore, detailCache)

	// queue side-effect consumer
	if err := setupQueue(ch, detailCache); err != nil {
		return nil, nil, err
	}

	// handlers + router + middleware
	checkoutH := httpadapter.NewCheckoutHandler(previewUC, commitUC, cartStore)
	paymentH := httpadapter.NewPaymentHandler(startPayUC, reconcileUC, 90*time.Second)
	orderH := httpadapter.NewOrderHandler(orderStore, finishUC)
	cartH := httpadapter.NewCartHandler(cartStore, inventory)
	tokenH := httpadapter.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(checkoutH, paymentH, orderH, cartH, tokenH, authz)

	l.Info("order-api wired", "http_addr", cfg.App.HTTPAddr)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		_ = ch.Close()
		_ = conn.Close()
		_ = kprod.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, cache usecase.DetailCache) error {
	h := queue.NewOrderCommittedHandler(cache)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register("order.committed.q", queue.JSONHandler[usecase.OrderCommittedMsg]{HandleFunc: h.HandleCommitted})
	return router.Start()
}
