package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"zonewarden.io/internal/metrics"
	"zonewarden.io/internal/models"
	"zonewarden.io/internal/storage"
	"zonewarden.io/internal/validator"
	"zonewarden.io/internal/zonefile"
)

const (
	msgTTLRequired   = "TTL is required"
	msgTTLNotInteger = "TTL must be a whole number of seconds"

	maxZoneFileBytes = 4 << 20

	// SnapshotSourceHeader names the cache layer that served a read (L1, L2 or DB)
	SnapshotSourceHeader = "X-Snapshot-Source"
)

// RecordRequest is the body of record create, update and dry-run validation. TTL is
// kept raw so a non-integer value becomes a field error instead of a bind failure.
type RecordRequest struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value string          `json:"value"`
	TTL   json.RawMessage `json:"ttl"`
}

// RecordFilter narrows a record listing
type RecordFilter struct {
	Type string `form:"type" binding:"omitempty,record_type"`
}

// record converts the request into an engine record. ttlErr is non-empty when the TTL
// could not be read as an integer.
func (r RecordRequest) record() (rec models.Record, ttlErr string) {
	rec = models.Record{Name: r.Name, Type: models.RecordType(r.Type), Value: r.Value}

	raw := bytes.TrimSpace(r.TTL)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return rec, msgTTLRequired
	}

	ttl, err := strconv.Atoi(string(raw))
	if err != nil {
		return rec, msgTTLNotInteger
	}
	rec.TTL = ttl
	return rec, ""
}

// withTTLError replaces the engine's range message with the integer-parse message
func withTTLError(result models.ValidationResult, ttlErr string) models.ValidationResult {
	if ttlErr == "" {
		return result
	}
	if result.Errors == nil {
		result.Errors = make(map[string]string)
	}
	result.Errors[models.FieldTTL] = ttlErr
	result.Valid = false
	return result
}

// RecordHandlers groups record endpoints of one zone
type RecordHandlers struct {
	store   storage.Store
	metrics *metrics.ValidationMetrics
}

func NewRecordHandlers(store storage.Store, m *metrics.ValidationMetrics) *RecordHandlers {
	return &RecordHandlers{store: store, metrics: m}
}

// snapshot reads the zone's records. Behind a CachedStore the serving layer is
// reported in SnapshotSourceHeader.
func (h *RecordHandlers) snapshot(c *gin.Context, zoneID string) ([]models.Record, error) {
	cached, ok := h.store.(*storage.CachedStore)
	if !ok {
		return h.store.ListRecords(c.Request.Context(), zoneID)
	}

	res, err := cached.ListRecordsWithSource(c.Request.Context(), zoneID)
	if err != nil {
		return nil, err
	}
	c.Header(SnapshotSourceHeader, res.Source.String())
	return res.Records, nil
}

func (h *RecordHandlers) ListRecordsHandler(c *gin.Context) {
	var filter RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Unsupported record type filter", err.Error())
		return
	}

	zone := zoneOf(c)
	records, err := h.snapshot(c, zone.ID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if filter.Type != "" {
		rt, _ := models.ParseRecordType(filter.Type)
		filtered := make([]models.Record, 0, len(records))
		for _, r := range records {
			if r.Type == rt {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	c.JSON(http.StatusOK, gin.H{"zone": zone.Name, "records": records})
}

func (h *RecordHandlers) CreateRecordHandler(c *gin.Context) {
	h.writeRecord(c, http.StatusCreated, func(rec models.Record) (*storage.RecordWrite, error) {
		return h.store.CreateRecord(c.Request.Context(), zoneOf(c).ID, rec)
	})
}

func (h *RecordHandlers) UpdateRecordHandler(c *gin.Context) {
	h.writeRecord(c, http.StatusOK, func(rec models.Record) (*storage.RecordWrite, error) {
		return h.store.UpdateRecord(c.Request.Context(), zoneOf(c).ID, c.Param("recordID"), rec)
	})
}

func (h *RecordHandlers) writeRecord(c *gin.Context, status int, write func(models.Record) (*storage.RecordWrite, error)) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	rec, ttlErr := req.record()
	result, err := write(rec)

	var rejected *storage.RecordRejectedError
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, withTTLError(rejected.Result, ttlErr))
	case err != nil:
		writeStoreError(c, err)
	default:
		c.JSON(status, result)
	}
}

// ValidateRecordHandler is a dry run against the zone's current snapshot. It always
// answers 200 with the verdict.
func (h *RecordHandlers) ValidateRecordHandler(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	zone := zoneOf(c)
	snapshot, err := h.snapshot(c, zone.ID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	rec, ttlErr := req.record()
	start := time.Now()
	result := validator.ValidateDNSRecord(rec, snapshot, c.Query("record_id"), zone.Name)
	storage.Observe(zone.Name, rec, result, time.Since(start), h.metrics)

	c.JSON(http.StatusOK, withTTLError(result, ttlErr))
}

// ImportFailure is an accepted record the store refused at write time
type ImportFailure struct {
	Record models.Record           `json:"record"`
	Result models.ValidationResult `json:"result"`
}

// ImportResponse is the outcome of a zone-file import
type ImportResponse struct {
	DryRun  bool                     `json:"dryRun"`
	Skipped []zonefile.SkippedRecord `json:"skipped"`
	Report  *zonefile.Report         `json:"report"`
	Created []models.Record          `json:"created"`
	Failed  []ImportFailure          `json:"failed"`
}

// ImportHandler reads a master file from the body, checks it against the zone and, unless
// dry_run is set, writes the accepted records one at a time through the store
func (h *RecordHandlers) ImportHandler(c *gin.Context) {
	zone := zoneOf(c)
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxZoneFileBytes+1))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Could not read request body", err.Error())
		return
	}
	if len(body) > maxZoneFileBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, "too_large", "Zone file too large", "")
		return
	}

	parsed, err := zonefile.Parse(bytes.NewReader(body), zone.Name)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_zonefile", "Zone file could not be parsed", err.Error())
		return
	}

	existing, err := h.store.ListRecords(ctx, zone.ID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	resp := ImportResponse{
		DryRun:  dryRun,
		Skipped: parsed.Skipped,
		Report:  zonefile.CheckAgainst(parsed.Records, existing, zone.Name),
		Created: make([]models.Record, 0),
		Failed:  make([]ImportFailure, 0),
	}

	if !dryRun {
		for _, rec := range resp.Report.AcceptedRecords() {
			rec.ID = ""
			write, err := h.store.CreateRecord(ctx, zone.ID, rec)

			var rejected *storage.RecordRejectedError
			switch {
			case errors.As(err, &rejected):
				resp.Failed = append(resp.Failed, ImportFailure{Record: rec, Result: rejected.Result})
			case err != nil:
				writeStoreError(c, err)
				return
			default:
				resp.Created = append(resp.Created, write.Record)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ExportHandler renders the zone as a master file
func (h *RecordHandlers) ExportHandler(c *gin.Context) {
	zone := zoneOf(c)

	records, err := h.store.ListRecords(c.Request.Context(), zone.ID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	text, err := zonefile.Render(zone.Name, records)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "render_failed", "Zone could not be rendered", err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(zone.Name, `"`, "")+`.zone"`)
	c.Data(http.StatusOK, "text/dns; charset=utf-8", []byte(text))
}

// DeleteRecordHandler removes a record, surfacing the apex NS warning if any
func (h *RecordHandlers) DeleteRecordHandler(c *gin.Context) {
	check, err := h.store.DeleteRecord(c.Request.Context(), zoneOf(c).ID, c.Param("recordID"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}
