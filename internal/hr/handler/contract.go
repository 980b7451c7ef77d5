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
)

type ContractHandler struct {
	store *store.Store
	cache *DossierCache
}

func NewContractHandler(s *store.Store, cache *DossierCache) *ContractHandler {
	return &ContractHandler{store: s, cache: cache}
}

type ContractRequest struct {
	Cargo        string `json:"cargo" binding:"required"`
	Sueldo       string `json:"sueldo" binding:"required"`
	FInicio      string `json:"f_inicio" binding:"required"`
	FFin         string `json:"f_fin"`
	Tipo         string `json:"tipo"`
	Temporalidad string `json:"temporalidad"`
	Categoria    string `json:"categoria"`
	Planilla     *bool  `json:"planilla"`
	Estado       string `json:"estado"`
	MotivoCese   string `json:"motivo_cese"`
	Link         string `json:"link"`
}

// toModel validates the contract policy: estado is explicit, CESADO
// requires a motivo from the fixed list, ACTIVO forbids one. A past end
// date on an ACTIVO contract is reported as a warning, never rewritten.
func (req ContractRequest) toModel(dni string) (*models.Contract, []string, error) {
	fInicio, err := parseDateField(req.FInicio)
	if err != nil || fInicio == nil {
		return nil, nil, fmt.Errorf("f_inicio must be a valid YYYY-MM-DD date")
	}
	fFin, err := parseDateField(req.FFin)
	if err != nil {
		return nil, nil, fmt.Errorf("f_fin must be a valid YYYY-MM-DD date")
	}
	if fFin != nil && fFin.Before(*fInicio) {
		return nil, nil, fmt.Errorf("f_fin must not precede f_inicio")
	}

	sueldo, err := parseAmountField(req.Sueldo)
	if err != nil {
		return nil, nil, fmt.Errorf("sueldo must be a valid amount")
	}

	estado := req.Estado
	if estado == "" {
		estado = models.ContractActivo
	}
	switch estado {
	case models.ContractActivo:
		if req.MotivoCese != "" {
			return nil, nil, fmt.Errorf("motivo_cese is only valid for estado CESADO")
		}
	case models.ContractCesado:
		if !models.ValidMotivoCese(req.MotivoCese) {
			return nil, nil, fmt.Errorf("estado CESADO requires a motivo_cese from: %v", models.MotivosCese)
		}
	default:
		return nil, nil, fmt.Errorf("estado must be ACTIVO or CESADO")
	}

	var warnings []string
	if estado == models.ContractActivo && fFin != nil && fFin.Before(time.Now()) {
		warnings = append(warnings, "contract is ACTIVO but its end date is in the past")
	}

	planilla := true
	if req.Planilla != nil {
		planilla = *req.Planilla
	}

	return &models.Contract{
		DNI:          legacy.NormalizeDNI(dni),
		Cargo:        req.Cargo,
		Sueldo:       sueldo,
		FInicio:      fInicio,
		FFin:         fFin,
		Tipo:         req.Tipo,
		Temporalidad: req.Temporalidad,
		Categoria:    req.Categoria,
		Planilla:     planilla,
		Estado:       estado,
		MotivoCese:   req.MotivoCese,
		Link:         req.Link,
	}, warnings, nil
}

func (h *ContractHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	if _, err := h.store.FindEmployeeByDNI(ctx, dni); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("cargo, sueldo and f_inicio are required"))
		return
	}

	contract, warnings, err := req.toModel(dni)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := store.CreateRecord(ctx, h.store, middleware.SessionFrom(c), contract); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	h.cache.Invalidate(ctx, contract.DNI)
	c.JSON(http.StatusCreated, successWithMetaResponse("Contract created successfully", contract, gin.H{"warnings": warnings}))
}

func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := store.ListRecords[models.Contract](c.Request.Context(), h.store, c.Param("dni"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Contracts retrieved", contracts))
}

func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := store.GetRecord[models.Contract](c.Request.Context(), h.store, c.Param("dni"), id)
	if err != nil {
		respondStoreError(c, err, "No contract with that id for that DNI")
		return
	}
	c.JSON(http.StatusOK, successResponse("Contract retrieved", contract))
}

func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := store.GetRecord[models.Contract](ctx, h.store, c.Param("dni"), id)
	if err != nil {
		respondStoreError(c, err, "No contract with that id for that DNI")
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("cargo, sueldo and f_inicio are required"))
		return
	}

	contract, warnings, err := req.toModel(existing.DNI)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	contract.ID = existing.ID
	contract.CreatedAt = existing.CreatedAt

	if err := store.SaveRecord(ctx, h.store, middleware.SessionFrom(c), contract); err != nil {
		respondStoreError(c, err, "No contract with that id for that DNI")
		return
	}

	h.cache.Invalidate(ctx, contract.DNI)
	c.JSON(http.StatusOK, successWithMetaResponse("Contract updated successfully", contract, gin.H{"warnings": warnings}))
}

func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dni := c.Param("dni")
	if err := store.DeleteRecord[models.Contract](ctx, h.store, middleware.SessionFrom(c), dni, id); err != nil {
		respondStoreError(c, err, "No contract with that id for that DNI")
		return
	}

	h.cache.Invalidate(ctx, dni)
	c.JSON(http.StatusOK, successResponse("Contract deleted", nil))
}
