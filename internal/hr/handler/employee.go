package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/legacy"
)

type EmployeeHandler struct {
	store *store.Store
	cache *DossierCache
}

func NewEmployeeHandler(s *store.Store, cache *DossierCache) *EmployeeHandler {
	return &EmployeeHandler{store: s, cache: cache}
}

type CreateEmployeeRequest struct {
	DNI       string `json:"dni" binding:"required"`
	Nombres   string `json:"nombres" binding:"required"`
	Telefono  string `json:"telefono"`
	Correo    string `json:"correo"`
	Direccion string `json:"direccion"`
	Link      string `json:"link"`
}

type UpdateEmployeeRequest struct {
	Nombres   *string `json:"nombres,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Correo    *string `json:"correo,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Link      *string `json:"link,omitempty"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("dni and nombres are required"))
		return
	}

	employee := models.Employee{
		DNI:       legacy.NormalizeDNI(req.DNI),
		Nombres:   req.Nombres,
		Telefono:  req.Telefono,
		Correo:    req.Correo,
		Direccion: req.Direccion,
		Link:      req.Link,
	}
	if employee.DNI == "" {
		c.JSON(http.StatusBadRequest, errorResponse("dni must not be blank"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.FindEmployeeByDNI(ctx, employee.DNI); err == nil {
		c.JSON(http.StatusConflict, errorResponse("An employee with that DNI already exists"))
		return
	}

	if err := h.store.CreateEmployee(ctx, middleware.SessionFrom(c), &employee); err != nil {
		respondStoreError(c, err, "Employee not found")
		return
	}

	c.JSON(http.StatusCreated, successResponse("Employee created successfully", employee))
}

func (h *EmployeeHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid pagination parameters"))
		return
	}

	employees, total, err := h.store.ListEmployees(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Employees retrieved", employees, PaginationMeta{
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
	}))
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.store.FindEmployeeByDNI(c.Request.Context(), c.Param("dni"))
	if err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}
	c.JSON(http.StatusOK, successResponse("Employee retrieved", employee))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	employee, err := h.store.FindEmployeeByDNI(ctx, c.Param("dni"))
	if err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid update payload"))
		return
	}

	if req.Nombres != nil {
		employee.Nombres = *req.Nombres
	}
	if req.Telefono != nil {
		employee.Telefono = *req.Telefono
	}
	if req.Correo != nil {
		employee.Correo = *req.Correo
	}
	if req.Direccion != nil {
		employee.Direccion = *req.Direccion
	}
	if req.Link != nil {
		employee.Link = *req.Link
	}

	if err := h.store.UpdateEmployee(ctx, middleware.SessionFrom(c), employee); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	h.cache.Invalidate(ctx, employee.DNI)
	c.JSON(http.StatusOK, successResponse("Employee updated successfully", employee))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	if err := h.store.DeleteEmployee(ctx, middleware.SessionFrom(c), dni); err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	h.cache.Invalidate(ctx, dni)
	c.JSON(http.StatusOK, successResponse("Employee and related records deleted", nil))
}

// Dossier returns the full cross-category file of one employee, the view
// the consultation screen renders.
func (h *EmployeeHandler) Dossier(c *gin.Context) {
	ctx := c.Request.Context()
	dni := c.Param("dni")

	if cached, ok := h.cache.Get(ctx, dni); ok {
		c.JSON(http.StatusOK, successResponse("Dossier retrieved (cached)", cached))
		return
	}

	dossier, err := h.store.LoadDossier(ctx, dni)
	if err != nil {
		respondStoreError(c, err, "No employee with that DNI")
		return
	}

	h.cache.Set(ctx, dni, dossier)
	c.JSON(http.StatusOK, successResponse("Dossier retrieved", dossier))
}
