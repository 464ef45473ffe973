package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
	"github.com/iliyamo/restaurant-table-reservation/internal/saga"
	"github.com/iliyamo/restaurant-table-reservation/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and the
	// response cache but the sagas keep working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	// Notification publisher. Connection failures here are retried on
	// first publish, so a broker outage does not block startup.
	events := queue.NewClient(cfg.AMQPURL, cfg.ExchangeName)
	defer events.Close()

	// SMS notification consumer runs alongside the API.
	go func() {
		if err := queue.StartNotificationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("queue: notification consumer stopped: %v", err)
		}
	}()

	// Gateway clients for the collaborator services.
	hc := gateway.NewHTTPClient(cfg.HTTPTimeout)
	reservations := gateway.NewReservationClient(cfg.ReservationURL, hc)
	orders := gateway.NewOrderClient(cfg.OrderURL, hc)
	users := gateway.NewUserClient(cfg.UserURL, hc)
	restaurants := gateway.NewRestaurantClient(cfg.RestaurantURL, hc)
	payments := gateway.NewPaymentClient(cfg.PaymentURL, hc)
	waitlist := gateway.NewWaitlistClient(cfg.WaitlistURL, hc)

	// Saga orchestrators.
	admission := saga.NewAdmissionController(restaurants, orders)
	bookings := saga.NewBookingOrchestrator(reservations, orders, users, restaurants, waitlist, admission, events)
	reallocations := saga.NewReallocationOrchestrator(reservations, orders, users, waitlist, events)
	accepts := saga.NewAcceptOrchestrator(reservations, orders, users, events)
	cancels := saga.NewCancellationOrchestrator(reservations, orders, users, payments, events,
		&saga.AsyncReallocationTrigger{Reallocator: reallocations})

	// In-process reservation record store backed by MySQL.
	storeHandler := store.NewHandler(store.NewReservationRepo(db))

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterBooking(e,
		handler.NewBookingHandler(bookings, accepts),
		handler.NewCancellationHandler(cancels),
		handler.NewReallocationHandler(reallocations),
		cfg.JWTSecret, rdb)
	router.RegisterStore(e, storeHandler, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
