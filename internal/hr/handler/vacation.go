package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/legacy"
	"sistema-gth/internal/vacation"
)

type VacationHandler struct {
	store *store.Store
	cache *DossierCache
	now   func() time.Time
}

func NewVacationHandler(s *store.Store, cache *DossierCache) *VacationHandler {
	return &VacationHandler{store: s, cache: cache, now: time.Now}
}

type VacationPeriodRequest struct {
	Periodo       string `json:"periodo" binding:"required"`
	FInicio       string `json:"f_inicio"`
	FFin          string `json:"f_fin"`
	DiasGenerados string `json:"dias_generados"`
	DiasUsados    string `json:"dias_usados"`
	Saldo         string `json:"saldo"`
}

func (req VacationPeriodRequest) toModel(dni string) (*models.VacationPeriod, error) {
	fInicio, err := parseDateField(req.FInicio)
	if err != nil {
		return nil, fmt.Errorf("f_inicio must be a valid YYYY-MM-DD date")
	}
	fFin, err := parseDateField(req.FFin)
	if err != nil {
		return nil, fmt.Errorf("f_fin must be a valid YYYY-MM-DD date")
	}

	generados, err := parseAmountField(req.DiasGenerados)
	if err != nil {
		return nil, fmt.Errorf("dias_generados must be numeric")
	}
	usados, err := parseAmountField(req.DiasUsados)
	if err != nil {
		return nil, fmt.Errorf("dias_usados must be numeric")
	}
	saldo, err := parseAmountField(req.Saldo)
	if err != nil {
		return nil, fmt.Errorf("saldo must be numeric")
	}

	return &models.VacationPeriod{
		DNI:           legacy.NormalizeDNI(dni),
		Periodo:       req.Periodo,
		FInicio:       fInicio,
		FFin:          fFin,
		DiasGenerados: generados,
		DiasUsados:    usados,
		Saldo:         saldo,
	}, nil
}

func (h *VacationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	if _, err := h.store.FindEmployeeByDNI(ctx, dni); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	var req VacationPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("periodo is required"))
		return
	}

	period, err := req.toModel(dni)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := store.CreateRecord(ctx, h.store, middleware.SessionFrom(c), period); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	h.cache.Invalidate(ctx, period.DNI)
	c.JSON(http.StatusCreated, successResponse("Vacation period created successfully", period))
}

func (h *VacationHandler) List(c *gin.Context) {
	periods, err := store.ListRecords[models.VacationPeriod](c.Request.Context(), h.store, c.Param("dni"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Vacation periods retrieved", periods))
}

func (h *VacationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	period, err := store.GetRecord[models.VacationPeriod](c.Request.Context(), h.store, c.Param("dni"), id)
	if err != nil {
		respondStoreError(c, err, "No vacation period with that id for that DNI")
		return
	}
	c.JSON(http.StatusOK, successResponse("Vacation period retrieved", period))
}

func (h *VacationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := store.GetRecord[models.VacationPeriod](ctx, h.store, c.Param("dni"), id)
	if err != nil {
		respondStoreError(c, err, "No vacation period with that id for that DNI")
		return
	}

	var req VacationPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("periodo is required"))
		return
	}

	period, err := req.toModel(existing.DNI)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	period.ID = existing.ID
	period.CreatedAt = existing.CreatedAt

	if err := store.SaveRecord(ctx, h.store, middleware.SessionFrom(c), period); err != nil {
		respondStoreError(c, err, "No vacation period with that id for that DNI")
		return
	}

	h.cache.Invalidate(ctx, period.DNI)
	c.JSON(http.StatusOK, successResponse("Vacation period updated successfully", period))
}

func (h *VacationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dni := c.Param("dni")
	if err := store.DeleteRecord[models.VacationPeriod](ctx, h.store, middleware.SessionFrom(c), dni, id); err != nil {
		respondStoreError(c, err, "No vacation period with that id for that DNI")
		return
	}

	h.cache.Invalidate(ctx, dni)
	c.JSON(http.StatusOK, successResponse("Vacation period deleted", nil))
}

// Accrual estimates vacation days earned from the union of the
// employee's payroll contract intervals, one accrual window per year of
// tenure.
func (h *VacationHandler) Accrual(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	if _, err := h.store.FindEmployeeByDNI(ctx, dni); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	contracts, err := store.ListRecords[models.Contract](ctx, h.store, dni)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	usage, err := store.ListRecords[models.VacationPeriod](ctx, h.store, dni)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	report := vacation.BuildReport(contracts, usage, h.now())
	c.JSON(http.StatusOK, successResponse("Accrual report generated", report))
}
