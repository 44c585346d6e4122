package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/lukecc25/Flowershop/internal/accounts"
	"github.com/lukecc25/Flowershop/internal/cart"
	"github.com/lukecc25/Flowershop/internal/catalog"
	"github.com/lukecc25/Flowershop/internal/checkout"
	"github.com/lukecc25/Flowershop/internal/contact"
	"github.com/lukecc25/Flowershop/internal/db"
	h "github.com/lukecc25/Flowershop/internal/http"
	"github.com/lukecc25/Flowershop/internal/orders"
	"github.com/lukecc25/Flowershop/internal/publisher"
	"github.com/lukecc25/Flowershop/internal/session"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	MongoURI        string
	MongoDatabase   string
	KafkaBrokers    []string
	DB              *db.Credentials
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	return &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "flowershop"),
		KafkaBrokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		DB: &db.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "flowershop"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("flowershop starting...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := loadConfig()
	var wg sync.WaitGroup

	// Postgres holds the relational side: catalog, users, orders, contact.
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.DB.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer setupCancel()

	// Mongo holds the cart documents, one per session.
	mongoDB, err := db.ConnectMongo(setupCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if e2 := mongoDB.Client().Disconnect(context.Background()); e2 != nil {
			log.Printf("failed to disconnect from MongoDB: %v", e2)
		}
	}()

	cartRepo := cart.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(setupCtx); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}

	// Redis backs both the flower cache and the session store.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(setupCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Services
	catalogService := catalog.NewService(catalog.NewPostgresRepository(conn), catalog.NewRedisCache(redisClient))
	cartStore := cart.NewStore(cartRepo, cart.NewRedisCache(redisClient))
	cartService := cart.NewService(cartStore, catalogService)
	ordersRepo := orders.NewPostgresRepository(conn)
	checkoutService := checkout.NewService(cartStore, ordersRepo)
	accountsService := accounts.NewService(accounts.NewPostgresRepository(conn))
	contactRepo := contact.NewPostgresRepository(conn)
	sessionManager := session.NewManager(redisClient)

	// Outbox poller relays committed order events to Kafka.
	poller := publisher.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	// Handlers
	sessionLoader := h.NewSessionLoader(sessionManager)
	cartHandler := h.NewCartHandler(cartService, checkoutService, sessionLoader)
	catalogHandler := h.NewCatalogHandler(catalogService)
	accountsHandler := h.NewAccountsHandler(accountsService, sessionManager, cartService, sessionLoader)
	ordersHandler := h.NewOrdersHandler(ordersRepo)
	contactHandler := h.NewContactHandler(contactRepo)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(sessionLoader.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/flowers", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/{flower_id}", catalogHandler.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Get("/count", cartHandler.Count)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/bouquets", cartHandler.AddBouquet)
			r.Post("/move", cartHandler.MoveItem)
			r.Put("/bouquets/{bouquet}/items/{item}", cartHandler.UpdateQuantity)
			r.Delete("/bouquets/{bouquet}/items/{item}", cartHandler.RemoveItem)
			r.Put("/bouquets/{bouquet}/description", cartHandler.UpdateDescription)
			r.Delete("/bouquets/{bouquet}", cartHandler.RemoveBouquet)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/register", accountsHandler.Register)
			r.Post("/login", accountsHandler.Login)
			r.Post("/logout", accountsHandler.Logout)
			r.Get("/me", accountsHandler.Me)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", ordersHandler.List)
			r.Get("/{order_id}", ordersHandler.Get)
		})

		r.Post("/contact", contactHandler.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireAdmin)
			r.Post("/flowers", catalogHandler.Create)
			r.Put("/flowers/{flower_id}", catalogHandler.Update)
			r.Delete("/flowers/{flower_id}", catalogHandler.Delete)
			r.Get("/messages", contactHandler.List)
			r.Get("/messages/unread-count", contactHandler.UnreadCount)
			r.Put("/messages/{message_id}/read", contactHandler.MarkAsRead)
			r.Delete("/messages/{message_id}", contactHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Flowershop listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	pollerCancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Outbox poller stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Println("Outbox poller didn't stop in time")
	}

	if err := poller.Close(); err != nil {
		log.Printf("failed to close outbox publisher: %v", err)
	}

	log.Println("server exited")
}
