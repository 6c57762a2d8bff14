// internal/api/handlers/data_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/storeops/replenish-backend/internal/api/middleware"
	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/storeops/replenish-backend/internal/repository"
	"github.com/storeops/replenish-backend/internal/service"
	"github.com/storeops/replenish-backend/internal/sheet"
	"github.com/storeops/replenish-backend/internal/storage"
)

type DataHandler struct {
	searchService    *service.SearchService
	inventoryService *service.InventoryService
	reconcileService *service.ReconcileService
	authService      *service.AuthService
	audit            repository.AuditRepository
	archive          storage.UploadArchive
}

func NewDataHandler(
	searchService *service.SearchService,
	inventoryService *service.InventoryService,
	reconcileService *service.ReconcileService,
	authService *service.AuthService,
	audit repository.AuditRepository,
	archive storage.UploadArchive,
) *DataHandler {
	if archive == nil {
		archive = storage.NoopArchive{}
	}
	return &DataHandler{
		searchService:    searchService,
		inventoryService: inventoryService,
		reconcileService: reconcileService,
		authService:      authService,
		audit:            audit,
		archive:          archive,
	}
}

type searchRequest struct {
	Term  string `json:"term"`
	Value string `json:"value"`
}

// GetReplenishData runs an item search. A rejected search column or a bad
// query produces an empty result rather than an error, matching what the
// storefront expects.
func (h *DataHandler) GetReplenishData(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	items, err := h.searchService.Search(c.Request.Context(), req.Term, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSearchTerm) {
			log.Warn().Str("term", req.Term).Str("ip", c.ClientIP()).Msg("rejected search column")
			c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "data": []domain.StoreItem{}})
			return
		}
		log.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError, "data": []domain.StoreItem{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "data": items})
}

// UpsertSnapshot ingests an inventory snapshot workbook and replaces the
// matching store_data rows in one statement.
func (h *DataHandler) UpsertSnapshot(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	reader, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to open uploaded snapshot")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}
	defer reader.Close()

	items, err := sheet.ParseSnapshot(reader, time.Now())
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to parse snapshot workbook")
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	result, err := h.inventoryService.UpsertSnapshot(c.Request.Context(), items)
	if err != nil {
		log.Error().Err(err).Msg("snapshot upsert failed")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "data": result})
}

// ReconcileSaleTags ingests a promotional spreadsheet and applies its rows to
// the matching visible sale tags. Rows that match nothing are parked for
// review; their persistence never fails the request.
func (h *DataHandler) ReconcileSaleTags(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	endDate := c.PostForm("end_date")
	applyToAll, _ := strconv.ParseBool(c.DefaultPostForm("apply_to_all", "false"))

	uid, err := h.requestUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized})
		return
	}

	raw, err := readUpload(file)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to read uploaded workbook")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}

	h.archiveUpload(c, file.Filename, raw)

	rows, err := sheet.ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to parse sale tag workbook")
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	result, err := h.reconcileService.ReconcileSaleTags(c.Request.Context(), rows, endDate, applyToAll, uid)
	if err != nil {
		log.Error().Err(err).Msg("sale tag reconcile failed")
		c.JSON(http.StatusOK, gin.H{"status_code": http.StatusInternalServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK, "data": result})
}

type auditRequest struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Log appends one audit entry for the signed-in user.
func (h *DataHandler) Log(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest})
		return
	}

	uid, err := h.requestUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized})
		return
	}

	entry := &domain.AuditEntry{
		UID:       uid,
		Type:      req.Type,
		Detail:    req.Detail,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	// Fire and forget: a lost audit row never fails the caller's request.
	if err := h.audit.Insert(c.Request.Context(), entry); err != nil {
		log.Error().Err(err).Msg("audit insert failed")
	}

	c.JSON(http.StatusOK, gin.H{"status_code": http.StatusOK})
}

// requestUID resolves the login stored by the auth middleware to the durable
// numeric user id.
func (h *DataHandler) requestUID(c *gin.Context) (int64, error) {
	login, ok := c.Get(middleware.LoginKey)
	if !ok {
		return 0, fmt.Errorf("no authenticated login on request")
	}
	return h.authService.ResolveUID(c.Request.Context(), login.(string))
}

// archiveUpload keeps a copy of the raw workbook in object storage. Failures
// are logged only; the upload already succeeded from the caller's view.
func (h *DataHandler) archiveUpload(c *gin.Context, filename string, raw []byte) {
	key := fmt.Sprintf("sale-tags/%s/%s", time.Now().Format("2006-01-02"), filename)
	if err := h.archive.Archive(c.Request.Context(), key, raw, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to archive uploaded workbook")
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
