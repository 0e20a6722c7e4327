package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zonewarden.io/internal/logging"
	"zonewarden.io/internal/models"
	"zonewarden.io/internal/storage"
	"zonewarden.io/internal/validator"
)

const zoneKey = "zone"

// ZoneRequest is the body of zone creation and overlap checks
type ZoneRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// ZoneHandlers groups zone lifecycle endpoints
type ZoneHandlers struct {
	store storage.Store
}

func NewZoneHandlers(store storage.Store) *ZoneHandlers {
	return &ZoneHandlers{store: store}
}

// CreateZoneHandler creates a zone after name, duplicate and overlap checks
func (h *ZoneHandlers) CreateZoneHandler(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	zone, err := h.store.CreateZone(c.Request.Context(), tenantOf(c), req.Name)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func (h *ZoneHandlers) ListZonesHandler(c *gin.Context) {
	zones, err := h.store.ListZones(c.Request.Context(), tenantOf(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

func (h *ZoneHandlers) GetZoneHandler(c *gin.Context) {
	zone, err := h.store.GetZone(c.Request.Context(), tenantOf(c), c.Param("zoneID"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (h *ZoneHandlers) DeleteZoneHandler(c *gin.Context) {
	if err := h.store.DeleteZone(c.Request.Context(), tenantOf(c), c.Param("zoneID")); err != nil {
		writeStoreError(c, err)
		return
	}
	logging.Info("api", "Zone deleted", "tenant", tenantOf(c), "zone_id", c.Param("zoneID"))
	c.Status(http.StatusNoContent)
}

// OverlapHandler runs the hierarchy check of a prospective zone name against the
// tenant's zones without creating anything. The name is canonicalized the way zone
// creation does it, so IDN spellings compare against their stored punycode form.
func (h *ZoneHandlers) OverlapHandler(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	name, err := validator.ValidateZoneName(req.Name)
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "invalid_zone_name", err.Error(), req.Name)
		return
	}

	zones, err := h.store.ListZones(c.Request.Context(), tenantOf(c))
	if err != nil {
		writeStoreError(c, err)
		return
	}

	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.Name
	}
	c.JSON(http.StatusOK, validator.DetectZoneOverlap(name, names))
}

// loadZone resolves :zoneID for the tenant and stores it on the context
func (h *ZoneHandlers) loadZone(c *gin.Context) {
	zone, err := h.store.GetZone(c.Request.Context(), tenantOf(c), c.Param("zoneID"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.Set(zoneKey, zone)
	c.Next()
}

func zoneOf(c *gin.Context) *models.Zone {
	return c.MustGet(zoneKey).(*models.Zone)
}

// HealthHandler reports store reachability
type HealthHandler struct {
	store storage.Store
}

func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	if err := h.store.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
