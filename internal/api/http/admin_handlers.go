package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mind-engage/archquiz/internal/assets"
	"github.com/mind-engage/archquiz/internal/bank"
	syncx "github.com/mind-engage/archquiz/internal/sync"
)

// POST /admin/bank/reload
// Re-reads the content directory and swaps the bank in. Open exam sessions
// keep the questions they were sampled with.
func ReloadBankHandler(h *bank.Holder, dataDir string, res *assets.Resolver, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, dropped, err := bank.LoadDir(dataDir)
		if err != nil {
			log.Error("bank reload failed", "dir", dataDir, "err", err)
			http.Error(w, "reload: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.Swap(b)
		issues := append(dropped, bank.Validate(b, res.ImageExists, res.DocumentExists)...)
		log.Info("bank reloaded", "quizzes", len(b.Quizzes), "labs", len(b.Labs), "pool", len(b.Pool()), "issues", len(issues))
		writeJSON(w, http.StatusOK, map[string]any{
			"quizzes": len(b.Quizzes),
			"labs":    len(b.Labs),
			"pool":    len(b.Pool()),
			"issues":  issues,
		})
	}
}

// GET /admin/events?after=&limit=
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, err := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		if err != nil {
			after = 0
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := events.List(r.Context(), after, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
