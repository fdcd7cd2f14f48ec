package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/auth"
	authmw "github.com/mind-engage/archquiz/internal/auth/middleware"
	"github.com/mind-engage/archquiz/internal/bank"
	"github.com/mind-engage/archquiz/internal/rbac"
	"github.com/mind-engage/archquiz/internal/storage"
	syncx "github.com/mind-engage/archquiz/internal/sync"
)

type Deps struct {
	Auth          *authmw.AuthService
	AdminUser     string
	AdminPassHash string

	Bank    *bank.Holder
	DataDir string
	Blobs   storage.BlobStore
	Assets  *assets.Resolver
	Events  *syncx.EventRepo // nil disables /admin/events
	DB      *sql.DB          // nil skips the readiness ping

	Exam   ExamDeps
	Logger *slog.Logger
}

// Mount registers every route on r.
func Mount(r chi.Router, d Deps) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.Exam.SecureCookies))
	r.Post("/auth/admin", auth.AdminLoginHandler(d.Auth, d.AdminUser, d.AdminPassHash))

	r.Route("/assets", func(ar chi.Router) {
		MountAssets(ar, d.Blobs)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermBankView)).Get("/quizzes", ListQuizzesHandler(d.Bank))
		pr.With(rbac.Require(rbac.PermBankView)).Get("/quizzes/{id}", GetQuizHandler(d.Bank, d.Assets))
		pr.With(rbac.Require(rbac.PermBankView)).Get("/labs", ListLabsHandler(d.Bank))
		pr.With(rbac.Require(rbac.PermBankView)).Get("/labs/{id}", GetLabHandler(d.Bank, d.Assets))
		pr.With(rbac.Require(rbac.PermBankView)).Get("/documents", ListDocumentsHandler(d.Bank, d.Assets))

		pr.Route("/exam", func(er chi.Router) {
			er.Use(rbac.Require(rbac.PermExamTake))
			er.Post("/", OpenExamHandler(d.Exam))
			er.Get("/", GetExamHandler(d.Exam))
			er.Delete("/", CloseExamHandler(d.Exam))
			er.Post("/answer", AnswerHandler(d.Exam))
			er.Post("/next", NextHandler(d.Exam))
			er.Post("/previous", PreviousHandler(d.Exam))
			er.Post("/goto", GoToHandler(d.Exam))
			er.Post("/finish", FinishHandler(d.Exam))
			er.Get("/last-result", LastResultHandler(d.Exam))
		})

		pr.With(rbac.Require(rbac.PermBankReload)).
			Post("/admin/bank/reload", ReloadBankHandler(d.Bank, d.DataDir, d.Assets, log))
		pr.With(rbac.Require(rbac.PermAssetsUpload)).
			Put("/admin/assets/*", UploadAssetHandler(d.Blobs))
		if d.Events != nil {
			pr.With(rbac.Require(rbac.PermEventsView)).
				Get("/admin/events", ListEventsHandler(d.Events))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB != nil {
			if err := d.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})
}
