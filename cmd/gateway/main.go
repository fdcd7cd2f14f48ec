package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/archquiz/internal/api/http"
	"github.com/mind-engage/archquiz/internal/assets"
	authmw "github.com/mind-engage/archquiz/internal/auth/middleware"
	"github.com/mind-engage/archquiz/internal/bank"
	"github.com/mind-engage/archquiz/internal/config"
	"github.com/mind-engage/archquiz/internal/db"
	"github.com/mind-engage/archquiz/internal/exam"
	"github.com/mind-engage/archquiz/internal/record"
	storage "github.com/mind-engage/archquiz/internal/storage"
	syncx "github.com/mind-engage/archquiz/internal/sync"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}
	cfg := config.FromEnv()
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		dbh    *sql.DB
		events *syncx.EventRepo
		err    error
	)
	if cfg.DBDriver != "none" {
		dbh, err = db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return err
		}
		defer dbh.Close()
		events = syncx.NewEventRepo(dbh, "")
	}

	records, err := openRecords(ctx, cfg, dbh)
	if err != nil {
		return err
	}

	// --- Content ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return err
	}
	res := &assets.Resolver{Store: bs, BaseURL: "/assets", Logger: log}

	b, dropped, err := bank.LoadDir(cfg.DataDir)
	if err != nil {
		// start with an empty bank; exams degrade to zero questions
		log.Warn("question bank unavailable", "dir", cfg.DataDir, "err", err)
		b = &bank.Bank{}
	}
	for _, is := range append(dropped, bank.Validate(b, res.ImageExists, res.DocumentExists)...) {
		log.Warn("content issue", "where", is.Where, "problem", is.Problem, "detail", is.Detail)
	}
	holder := bank.NewHolder(b)
	log.Info("question bank loaded", "quizzes", len(b.Quizzes), "labs", len(b.Labs), "pool", len(b.Pool()))

	sessions := &exam.Manager{
		Pool:    func() []bank.Question { return holder.Load().Pool() },
		Size:    cfg.ExamSize,
		IdleTTL: cfg.SessionIdleTTL,
		Logger:  log,
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Range"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Auth:          authmw.NewAuthService(cfg.AuthSecret),
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
		Bank:          holder,
		DataDir:       cfg.DataDir,
		Blobs:         bs,
		Assets:        res,
		Events:        events,
		DB:            dbh,
		Exam: api.ExamDeps{
			Sessions:      sessions,
			Assets:        res,
			Records:       records,
			Events:        events,
			SecureCookies: cfg.CookieSecure,
			Logger:        log,
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop, cancelSig := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelSig()
	go func() {
		<-stop.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "records", cfg.RecordDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openRecords picks the server-side copy of exam records. The browser
// cookie is always written regardless.
func openRecords(ctx context.Context, cfg config.Config, dbh *sql.DB) (record.Store, error) {
	switch cfg.RecordDriver {
	case "memory":
		return record.NewMemoryStore(), nil
	case "sql":
		if dbh == nil {
			return nil, errors.New("RECORD_DRIVER=sql needs a database")
		}
		st := record.NewSQLStore(dbh)
		if n, err := st.Purge(ctx); err != nil {
			slog.Warn("purge expired records", "err", err)
		} else if n > 0 {
			slog.Info("purged expired records", "rows", n)
		}
		return st, nil
	case "redis":
		rdb := record.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return record.NewRedisStore(rdb), nil
	case "none", "":
		return nil, nil
	default:
		return nil, errors.New("unknown RECORD_DRIVER " + cfg.RecordDriver)
	}
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv}))
}
