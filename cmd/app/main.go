package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	httpin "github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/in/http"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/in/rabbitmq"
	wsin "github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/in/websocket"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/out/blood4life"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/out/cache"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/adapters/out/logger"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/out"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	blood4lifeAdapter := blood4life.NewBlood4LifeAdapter(cfg, log.WithModule("Blood4LifeAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервисов
	eligibilityService := services.NewEligibilityService(blood4lifeAdapter, blood4lifeAdapter, mainLogger)
	bookingService := services.NewBookingService(blood4lifeAdapter, blood4lifeAdapter, cacheAdapter, mainLogger)
	calendarService := services.NewCalendarService(blood4lifeAdapter, bookingService, mainLogger)
	dashboardService := services.NewDashboardService(blood4lifeAdapter, mainLogger)
	notificationService := services.NewNotificationService(blood4lifeAdapter, mainLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Фоновый опрос уведомлений, страхует недоступный websocket
	notificationService.StartPolling(ctx)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := httpin.NewBookingController(
		bookingService,
		eligibilityService,
		calendarService,
		dashboardService,
		notificationService,
		cfg,
	)
	controller.RegisterRoutes(router)

	// Слушатель изменений записей только если RabbitMQ включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewAppointmentListener(
			cacheAdapter,
			cfg,
			log.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	// Push-канал уведомлений, при обрыве продолжает работать опрос
	if cfg.WebSocket.Enabled {
		wsListener := wsin.NewNotificationListener(
			notificationService,
			cfg,
			log.WithModule("WebSocketListener"),
			domain.NotificationRecipientType(cfg.WebSocket.RecipientType),
			cfg.WebSocket.RecipientID,
		)
		if wsListener != nil {
			if err := wsListener.Start(ctx); err != nil {
				log.Error("app.websocket.start_failed", out.LogFields{
					"error": err.Error(),
				})
				os.Exit(1)
			}
			defer wsListener.Stop()
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
