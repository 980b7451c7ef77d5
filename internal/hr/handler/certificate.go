package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sistema-gth/config"
	"sistema-gth/internal/certificate"
	"sistema-gth/internal/database/models"
	"sistema-gth/internal/hr/store"
)

type CertificateHandler struct {
	store *store.Store
	cfg   config.CertificateConfig
	now   func() time.Time
}

func NewCertificateHandler(s *store.Store, cfg config.CertificateConfig) *CertificateHandler {
	return &CertificateHandler{store: s, cfg: cfg, now: time.Now}
}

// Generate renders the employment certificate for one employee. Rows are
// printed one per contract unless consolidate=true collapses continuous
// tenure into single rows.
func (h *CertificateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	employee, err := h.store.FindEmployeeByDNI(ctx, dni)
	if err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	contracts, err := store.ListRecords[models.Contract](ctx, h.store, dni)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	if len(contracts) == 0 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("Employee has no contracts to certify"))
		return
	}

	consolidate := c.Query("consolidate") == "true"
	data := certificate.Data{
		Nombres:     employee.Nombres,
		DNI:         employee.DNI,
		Lines:       certificate.BuildLines(contracts, consolidate),
		Office:      h.cfg.Office,
		City:        h.cfg.City,
		SignerName:  h.cfg.SignerName,
		SignerTitle: h.cfg.SignerTitle,
		HeaderImage: h.cfg.HeaderImage,
		FooterImage: h.cfg.FooterImage,
		IssuedAt:    h.now(),
	}

	var buf bytes.Buffer
	if err := certificate.Render(data, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error rendering certificate"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=constancia_%s.pdf", employee.DNI))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
