package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/comandahub/comanda-backend/internal/modules/auth"
	"github.com/comandahub/comanda-backend/internal/modules/board"
	"github.com/comandahub/comanda-backend/internal/modules/catalog"
	"github.com/comandahub/comanda-backend/internal/modules/customer"
	"github.com/comandahub/comanda-backend/internal/modules/order"
	"github.com/comandahub/comanda-backend/internal/modules/permission"
	"github.com/comandahub/comanda-backend/internal/modules/postal"
	"github.com/comandahub/comanda-backend/internal/modules/store"
	"github.com/comandahub/comanda-backend/internal/modules/tag"
	"github.com/comandahub/comanda-backend/internal/modules/user"
	"github.com/comandahub/comanda-backend/internal/modules/wizard"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	// ── Repositories & services ─────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo)

	permissionRepo := permission.NewPostgresRepository(db)
	permissionService := permission.NewService(permissionRepo)

	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)

	tagRepo := tag.NewPostgresRepository(db)
	tagService := tag.NewService(tagRepo)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, logger)

	authService := auth.NewService(jwtSecret, userRepo)

	var drafts wizard.DraftStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		defer rdb.Close()
		drafts = wizard.NewRedisStore(rdb)
		logger.Info("wizard drafts on redis", zap.String("addr", addr))
	} else {
		drafts = wizard.NewMemoryStore()
		logger.Warn("REDIS_ADDR not set, wizard drafts are in-process only")
	}
	wizardService := wizard.NewService(drafts, customerService, catalogService, orderService, logger)

	postalClient := postal.NewClient(os.Getenv("VIACEP_BASE_URL"), logger)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	userHandler := user.NewHandler(userService)

	// Public surface: login and user registration.
	auth.NewHandler(authService).RegisterRoutes(router)
	userHandler.RegisterPublicRoutes(router)

	// Everything else requires a valid token; the middleware also resolves
	// the caller's role for store-scoped paths.
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticator(jwtSecret, userRepo, storeRepo))

		userHandler.RegisterRoutes(r)
		store.NewHandler(storeService).RegisterRoutes(r)
		permission.NewHandler(permissionService).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		tag.NewHandler(tagService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		board.NewHandler(orderService).RegisterRoutes(r)
		wizard.NewHandler(wizardService).RegisterRoutes(r)
		postal.NewHandler(postalClient).RegisterRoutes(r)
	})

	// ── Start server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("comanda API listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
