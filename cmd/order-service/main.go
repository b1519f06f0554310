package main

import (
	"flag"
	"fmt"

	"github.com/AutoDealHub/AutoDealHub/internal/catalog"
	"github.com/AutoDealHub/AutoDealHub/internal/common/auth"
	"github.com/AutoDealHub/AutoDealHub/internal/common/config"
	"github.com/AutoDealHub/AutoDealHub/internal/common/db"
	"github.com/AutoDealHub/AutoDealHub/internal/common/logger"
	"github.com/AutoDealHub/AutoDealHub/internal/common/middleware"
	"github.com/AutoDealHub/AutoDealHub/internal/common/server"
	"github.com/AutoDealHub/AutoDealHub/internal/common/tracing"
	"github.com/AutoDealHub/AutoDealHub/internal/inventory"
	"github.com/AutoDealHub/AutoDealHub/internal/order"
	"github.com/AutoDealHub/AutoDealHub/internal/store"
	"github.com/gin-gonic/gin"
)

var (
	configPath = flag.String("config", "configs/order-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置；配了 Consul KV 就优先用 KV 里的
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if cfg.Consul.KVKey != "" {
		if kvCfg, err := config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, cfg.Consul.KVKey); err == nil {
			cfg = kvCfg
		}
	}

	// 初始化日志
	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Path:   cfg.Log.Path,
		Driver: cfg.Log.Driver,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&catalog.Brand{},
		&catalog.Model{},
		&catalog.Configuration{},
		&catalog.AdditionalOption{},
		&inventory.Vehicle{},
		&order.Order{},
		&order.OrderOption{},
		&order.StatusHistory{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 组装订单引擎
	txStore := store.NewGorm(gormDB)
	orderSvc := order.NewService(txStore, order.Config{
		VINPrefix:      cfg.Engine.VINPrefix,
		VINMaxAttempts: cfg.Engine.VINMaxAttempts,
		DefaultColor:   cfg.Engine.DefaultColor,
	})

	orderHTTP := order.NewHTTPServer(orderSvc, log)
	catalogHTTP := catalog.NewHTTPServer(catalog.NewRepo(gormDB))
	inventoryHTTP := inventory.NewHTTPServer(inventory.NewRepo(gormDB))

	if err := server.RunHTTPServer(cfg, log, func(r *gin.Engine) error {
		api := r.Group("/api")
		api.Use(auth.Middleware(cfg.Auth))

		adminGuard := auth.RequireRole(cfg.Auth, cfg.Auth.AdminRole)
		orderHTTP.Register(api, middleware.RateLimit(cfg.Engine.OrderRateLimit), adminGuard)
		catalogHTTP.Register(api)
		inventoryHTTP.Register(api, adminGuard)
		return nil
	}); err != nil {
		log.Fatalf("order-service exited with error: %v", err)
	}
}
