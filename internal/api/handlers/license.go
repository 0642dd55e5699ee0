package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vdpcore/licensed/internal/api/middleware"
	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/models"
)

const serverErrorMessage = "Erreur serveur."

// LicenseHandler handles license issuance and listing
type LicenseHandler struct {
	issuer *license.Issuer
	audit  license.AuditSink
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(issuer *license.Issuer, audit license.AuditSink) *LicenseHandler {
	return &LicenseHandler{
		issuer: issuer,
		audit:  audit,
	}
}

// GenerateRequest represents a license generation request. DurationDays is a
// pointer so the handler can tell a missing field from zero.
type GenerateRequest struct {
	MacAddress   string   `json:"macAddress"`
	DurationDays *float64 `json:"durationDays"`
}

// Generate handles license issuance
// POST /admin/generate-license
func (h *LicenseHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An unreadable body cannot carry a duration either
		RespondError(c, http.StatusBadRequest, license.ErrDurationRequired.Message)
		return
	}

	record, err := h.issuer.Issue(req.MacAddress, req.DurationDays)
	if err != nil {
		var vErr *license.ValidationError
		if errors.As(err, &vErr) {
			h.logIssue(c, false, vErr.Message, "")
			RespondError(c, http.StatusBadRequest, vErr.Message)
			return
		}

		log.Printf("Error issuing license: %v", err)
		h.logIssue(c, false, err.Error(), "")
		RespondError(c, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	h.logIssue(c, true, "", fmt.Sprintf(`{"license_key":%q,"mac_address":%q}`, record.LicenseKey, record.MacAddress))

	c.JSON(http.StatusOK, record)
}

// List returns every issued record
// GET /admin/licenses
func (h *LicenseHandler) List(c *gin.Context) {
	records, err := h.issuer.List()
	if err != nil {
		log.Printf("Error listing licenses: %v", err)
		RespondError(c, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	if records == nil {
		records = []models.LicenseRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(records),
		"licenses": records,
	})
}

// Stats returns aggregate counts over the issued records
// GET /admin/licenses/stats
func (h *LicenseHandler) Stats(c *gin.Context) {
	stats, err := h.issuer.Stats()
	if err != nil {
		log.Printf("Error computing license stats: %v", err)
		RespondError(c, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *LicenseHandler) logIssue(c *gin.Context, success bool, errMsg, details string) {
	if h.audit == nil {
		return
	}

	if err := h.audit.Record(&models.AuditEntry{
		Action:     models.ActionLicenseIssue,
		ClientIP:   GetClientIP(c),
		UserAgent:  c.GetHeader("User-Agent"),
		APIKeySeen: c.GetBool(middleware.APIKeyContextKey),
		Success:    success,
		ErrorMsg:   errMsg,
		Details:    details,
	}); err != nil {
		log.Printf("Error writing audit entry: %v", err)
	}
}
