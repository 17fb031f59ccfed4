package handler

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// maxSnapshotUpload caps restore uploads at 256 MiB, far beyond any
// realistic store for a counter register.
const maxSnapshotUpload = 256 << 20

// SnapshotHandler handles snapshot persistence and restore requests
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// Persist forces an immediate snapshot write. Mutations already persist on
// commit; this exists for operators who want a known-good slot before
// maintenance.
func (h *SnapshotHandler) Persist(c *gin.Context) {
	if err := h.snapshotService.Persist(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Snapshot persisted successfully", h.snapshotService.Status())
}

// Status reports when the slot was last written and whether committed
// state is still waiting on a successful persist
func (h *SnapshotHandler) Status(c *gin.Context) {
	response.OK(c, "Snapshot status retrieved successfully", h.snapshotService.Status())
}

// Export streams the current store as a snapshot download
func (h *SnapshotHandler) Export(c *gin.Context) {
	data, err := h.snapshotService.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%s.db", time.Now().UTC().Format("20060102T150405Z"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/octet-stream", data)
}

// Restore replaces the live store with an uploaded snapshot. The upload is
// verified before anything is swapped; a bad file leaves the store running
// untouched. Accepts either a multipart "snapshot" field or a raw body.
func (h *SnapshotHandler) Restore(c *gin.Context) {
	data, err := h.readSnapshotUpload(c)
	if err != nil {
		response.BadRequest(c, "Could not read snapshot upload: "+err.Error())
		return
	}

	if err := h.snapshotService.Restore(c.Request.Context(), data); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Snapshot restored successfully", h.snapshotService.Status())
}

func (h *SnapshotHandler) readSnapshotUpload(c *gin.Context) ([]byte, error) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, err := c.FormFile("snapshot")
		if err != nil {
			return nil, err
		}
		if file.Size > maxSnapshotUpload {
			return nil, fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotUpload)
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	return io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotUpload))
}
