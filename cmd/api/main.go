// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/gorilla/mux"
    "github.com/jmoiron/sqlx"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    // Internal packages
    "github.com/B-T-D/datespot-suggester-sub000/internal/common/database"
    "github.com/B-T-D/datespot-suggester-sub000/internal/config"
    "github.com/B-T-D/datespot-suggester-sub000/internal/match"
    "github.com/B-T-D/datespot-suggester-sub000/internal/messaging"
    "github.com/B-T-D/datespot-suggester-sub000/internal/user"
    "github.com/B-T-D/datespot-suggester-sub000/internal/venue"
)

var startTime = time.Now()

func main() {
    log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

    log.Println("========================================")
    log.Println("🚀 Starting Datespot Suggester API")
    log.Println("========================================")

    // 1. Load environment variables
    log.Println("📁 Step 1: Loading .env file...")
    if err := godotenv.Load(); err != nil {
        log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
    } else {
        log.Println("✅ .env file loaded successfully")
    }

    // 2. Load and validate configuration
    log.Println("\n📋 Step 2: Loading configuration...")
    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal("❌ Configuration validation failed:", err)
    }
    log.Println("✅ Configuration loaded")

    // 3. Connect to PostgreSQL
    log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
    db, err := database.NewPostgresDB(cfg.DatabaseURL)
    if err != nil {
        log.Fatal("❌ Failed to connect to PostgreSQL:", err)
    }
    defer db.Close()
    log.Println("✅ Connected to PostgreSQL successfully")

    // 4. Connect to Redis (optional, proximity query cache)
    log.Println("\n📮 Step 4: Connecting to Redis...")
    var redisClient *redis.Client
    if cfg.RedisURL != "" && cfg.ProximityCacheEnabled {
        redisClient, err = database.NewRedisClient(cfg.RedisURL)
        if err != nil {
            log.Printf("⚠️  Redis unavailable (%v), continuing without cache", err)
            redisClient = nil
        } else {
            defer redisClient.Close()
            log.Println("✅ Connected to Redis successfully")
        }
    } else {
        log.Println("⚠️  Proximity cache disabled, skipping Redis connection")
    }

    // 5. Run database migrations
    log.Println("\n🔨 Step 5: Running database migrations...")
    if err := runMigrations(db); err != nil {
        log.Fatal("❌ Failed to run migrations: ", err)
    }
    log.Println("✅ Database migrations completed")

    // 6. Load venue reference data
    log.Println("\n📚 Step 6: Loading venue reference data...")
    var ref *venue.ReferenceData
    if cfg.ReferenceDataFile != "" {
        ref, err = venue.LoadReferenceData(cfg.ReferenceDataFile)
        if err != nil {
            log.Fatal("❌ Failed to load reference data: ", err)
        }
        log.Printf("✅ Reference data loaded from %s", cfg.ReferenceDataFile)
    } else {
        ref = venue.NewReferenceData()
        log.Println("✅ Using built-in reference data")
    }

    // 7. Initialize venue module
    log.Println("\n📍 Step 7: Initializing venue module...")
    venueRepo := venue.NewPostgresRepository(db)
    venueService := venue.NewService(venueRepo, ref, redisClient)
    venueHandler := venue.NewHandler(venueService)
    log.Println("✅ Venue module initialized")

    // 8. Initialize user module
    log.Println("\n👤 Step 8: Initializing user module...")
    userRepo := user.NewPostgresRepository(db)
    userService := user.NewService(userRepo)
    userHandler := user.NewHandler(userService)
    log.Println("✅ User module initialized")

    // 9. Initialize match module
    log.Println("\n💞 Step 9: Initializing match module...")
    matchRepo := match.NewPostgresRepository(db)
    matchEngine := match.NewEngine(venueService.Scorer())
    matchService := match.NewService(matchRepo, userService, venueService, matchEngine)
    matchHandler := match.NewHandler(matchService)

    // Mutual-acceptance swipes create matches through this hook.
    userService.SetMatchCreator(matchService)
    log.Println("✅ Match module initialized")

    // 10. Initialize messaging module
    log.Println("\n💬 Step 10: Initializing messaging module...")
    messagingRepo := messaging.NewPostgresRepository(db)
    messagingService := messaging.NewService(messagingRepo, userService, venueService.Reference(), messaging.NewLexiconAnalyzer())
    messagingHandler := messaging.NewHandler(messagingService)
    log.Println("✅ Messaging module initialized")

    // 11. Set up routes
    log.Println("\n🛣️  Step 11: Setting up routes...")
    router := mux.NewRouter()

    router.HandleFunc("/health", healthCheck).Methods("GET")
    router.Handle("/metrics", promhttp.Handler()).Methods("GET")

    user.RegisterRoutes(router, userHandler)
    log.Println("   ✅ User routes registered")
    venue.RegisterRoutes(router, venueHandler)
    log.Println("   ✅ Venue routes registered")
    match.RegisterRoutes(router, matchHandler)
    log.Println("   ✅ Match routes registered")
    messaging.RegisterRoutes(router, messagingHandler)
    log.Println("   ✅ Messaging routes registered")

    router.Use(loggingMiddleware)

    // 12. Start the suggestion refill scheduler
    log.Println("\n⏰ Step 12: Starting suggestion refill scheduler...")
    schedulerCtx, stopScheduler := context.WithCancel(context.Background())
    defer stopScheduler()
    scheduler := match.NewScheduler(matchService, matchRepo, cfg.SuggestionRefillEvery)
    scheduler.Start(schedulerCtx)
    log.Printf("✅ Scheduler running every %s", cfg.SuggestionRefillEvery)

    // 13. Create and start HTTP server
    srv := &http.Server{
        Addr:         fmt.Sprintf(":%s", cfg.Port),
        Handler:      router,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Println("\n========================================")
        log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
        log.Printf("🌍 Environment: %s", cfg.Environment)
        log.Println("========================================")

        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal("❌ Failed to start server:", err)
        }
    }()

    // Wait for interrupt signal
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Println("\n⚠️  Shutdown signal received...")
    stopScheduler()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatal("❌ Server forced to shutdown:", err)
    }

    log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
    response := map[string]interface{}{
        "status":    "healthy",
        "timestamp": time.Now().Format(time.RFC3339),
        "uptime":    time.Since(startTime).String(),
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

        wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
        next.ServeHTTP(wrapped, r)

        log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
    })
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
    http.ResponseWriter
    statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.statusCode = code
    rw.ResponseWriter.WriteHeader(code)
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
    migrations := []string{
        `CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name VARCHAR(100) NOT NULL,
            current_lat DOUBLE PRECISION NOT NULL,
            current_lon DOUBLE PRECISION NOT NULL,
            predominant_lat DOUBLE PRECISION NOT NULL,
            predominant_lon DOUBLE PRECISION NOT NULL,
            tastes JSONB NOT NULL DEFAULT '{}'::jsonb,
            candidates JSONB NOT NULL DEFAULT '[]'::jsonb,
            pending_likes JSONB NOT NULL DEFAULT '{}'::jsonb,
            matches JSONB NOT NULL DEFAULT '[]'::jsonb,
            match_blacklist JSONB NOT NULL DEFAULT '{}'::jsonb,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
        `CREATE INDEX IF NOT EXISTS idx_users_predominant_location
            ON users (predominant_lat, predominant_lon)`,

        `CREATE TABLE IF NOT EXISTS datespots (
            id UUID PRIMARY KEY,
            name VARCHAR(200) NOT NULL,
            lat DOUBLE PRECISION NOT NULL,
            lon DOUBLE PRECISION NOT NULL,
            traits JSONB NOT NULL DEFAULT '{}'::jsonb,
            price_range INTEGER NOT NULL DEFAULT -1,
            baseline_dateworthiness DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,
        `CREATE INDEX IF NOT EXISTS idx_datespots_location
            ON datespots (lat, lon)`,

        `CREATE TABLE IF NOT EXISTS matches (
            id UUID PRIMARY KEY,
            user1_id UUID NOT NULL REFERENCES users(id),
            user2_id UUID NOT NULL REFERENCES users(id),
            matched_at TIMESTAMP NOT NULL,
            mid_lat DOUBLE PRECISION NOT NULL,
            mid_lon DOUBLE PRECISION NOT NULL,
            distance_meters DOUBLE PRECISION NOT NULL,
            suggestions JSONB NOT NULL DEFAULT '[]'::jsonb,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        `CREATE TABLE IF NOT EXISTS chats (
            id UUID PRIMARY KEY,
            user1_id UUID NOT NULL REFERENCES users(id),
            user2_id UUID NOT NULL REFERENCES users(id),
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        `CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            chat_id UUID NOT NULL REFERENCES chats(id),
            sender_id UUID NOT NULL REFERENCES users(id),
            text TEXT NOT NULL,
            sentiment DOUBLE PRECISION NOT NULL DEFAULT 0,
            sent_at TIMESTAMP NOT NULL
        )`,
        `CREATE INDEX IF NOT EXISTS idx_messages_chat_sent
            ON messages (chat_id, sent_at)`,
    }

    for i, migration := range migrations {
        if _, err := db.Exec(migration); err != nil {
            return fmt.Errorf("migration %d failed: %w", i+1, err)
        }
    }
    return nil
}
