// cmd/watcher/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/storeops/replenish-backend/internal/config"
	"github.com/storeops/replenish-backend/internal/drive"
	"github.com/storeops/replenish-backend/internal/repository/mysql"
	"github.com/storeops/replenish-backend/internal/service"
	"github.com/storeops/replenish-backend/internal/sheet"
)

// The watcher is a sidecar that pulls vendor workbooks out of a shared Drive
// folder and feeds them into the same services the HTTP API uses. It runs on
// its own port so the main API stays unaffected by slow Drive transfers.

type watcher struct {
	downloader *drive.Downloader
	sheets     *drive.SheetSource
	inventory  *service.InventoryService
	reconcile  *service.ReconcileService
	cfg        *config.Config
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}
	sheetSource, err := drive.NewSheetSource(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Sheets source: %v", err)
	}

	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	itemRepo := mysql.NewItemRepository(db)
	tagRepo := mysql.NewTagRepository(db)

	w := &watcher{
		downloader: drive.NewDownloader(driveService),
		sheets:     sheetSource,
		inventory:  service.NewInventoryService(itemRepo, nil),
		reconcile:  service.NewReconcileService(tagRepo, tagRepo, service.NewTagMissDiagnostics(tagRepo)),
		cfg:        cfg,
	}

	r := mux.NewRouter()
	r.HandleFunc("/sync/snapshots", w.syncSnapshots).Methods("POST")
	r.HandleFunc("/sync/sale-tags", w.syncSaleTags).Methods("POST")
	r.HandleFunc("/health", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", envOr("WATCHER_PORT", "8801"))
	log.Printf("Watcher starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

// syncSnapshots downloads every workbook in the configured Drive folder and
// upserts each one as an inventory snapshot.
func (w *watcher) syncSnapshots(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	paths, err := w.downloader.DownloadFolder(ctx, drive.DownloadOptions{
		FolderID:    w.cfg.Drive.FolderID,
		DownloadDir: w.cfg.Drive.DownloadDir,
	})
	if err != nil {
		httpError(rw, fmt.Sprintf("drive download failed: %v", err))
		return
	}

	snapshotAt := time.Now()
	var total int64
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			httpError(rw, fmt.Sprintf("failed to open %s: %v", path, err))
			return
		}
		items, err := sheet.ParseSnapshot(f, snapshotAt)
		f.Close()
		if err != nil {
			httpError(rw, fmt.Sprintf("failed to parse %s: %v", path, err))
			return
		}
		result, err := w.inventory.UpsertSnapshot(ctx, items)
		if err != nil {
			httpError(rw, fmt.Sprintf("upsert failed for %s: %v", path, err))
			return
		}
		total += result.Affected
	}

	writeJSON(rw, map[string]any{"files": len(paths), "affected": total})
}

type sheetSyncRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
	EndDate       string `json:"end_date"`
	ApplyToAll    bool   `json:"apply_to_all"`
}

// syncSaleTags pulls a sale-tag sheet published as a Google Sheet and runs the
// same reconcile pass the upload endpoint uses. Unmatched rows are stamped
// with uid 0, the system account.
func (w *watcher) syncSaleTags(rw http.ResponseWriter, req *http.Request) {
	var body sheetSyncRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(rw, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Range == "" {
		body.Range = "A1:Z"
	}

	rows, err := w.sheets.FetchRows(req.Context(), body.SpreadsheetID, body.Range)
	if err != nil {
		httpError(rw, fmt.Sprintf("sheet fetch failed: %v", err))
		return
	}

	result, err := w.reconcile.ReconcileSaleTags(req.Context(), rows, body.EndDate, body.ApplyToAll, 0)
	if err != nil {
		httpError(rw, fmt.Sprintf("reconcile failed: %v", err))
		return
	}

	writeJSON(rw, result)
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(v)
}

func httpError(rw http.ResponseWriter, msg string) {
	log.Println(msg)
	http.Error(rw, msg, http.StatusInternalServerError)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
