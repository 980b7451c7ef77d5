package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/legacy"
)

// RecordsHandler serves the flat per-employee categories that share one
// CRUD shape: family, academics, experience, publications, benefits,
// merits, evaluations and settlements. The legacy system repeated this
// screen per category; here one engine serves typed request structs.
type RecordsHandler struct {
	store *store.Store
	cache *DossierCache
}

func NewRecordsHandler(s *store.Store, cache *DossierCache) *RecordsHandler {
	return &RecordsHandler{store: s, cache: cache}
}

type recordRequest[T any] interface {
	toModel(dni string) (*T, error)
}

func createRecord[R recordRequest[T], T any](h *RecordsHandler, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		dni := c.Param("dni")

		if _, err := h.store.FindEmployeeByDNI(ctx, dni); err != nil {
			respondStoreError(c, err, "No employee with that DNI")
			return
		}

		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid "+label+" payload: "+err.Error()))
			return
		}

		record, err := req.toModel(dni)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}

		if err := store.CreateRecord(ctx, h.store, middleware.SessionFrom(c), record); err != nil {
			respondStoreError(c, err, "No employee with that DNI")
			return
		}

		h.cache.Invalidate(ctx, dni)
		c.JSON(http.StatusCreated, successResponse(label+" record created successfully", record))
	}
}

func listRecords[T any](h *RecordsHandler, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := store.ListRecords[T](c.Request.Context(), h.store, c.Param("dni"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
			return
		}
		c.JSON(http.StatusOK, successResponse(label+" records retrieved", records))
	}
}

func getRecord[T any](h *RecordsHandler, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		record, err := store.GetRecord[T](c.Request.Context(), h.store, c.Param("dni"), id)
		if err != nil {
			respondStoreError(c, err, "No "+label+" record with that id for that DNI")
			return
		}
		c.JSON(http.StatusOK, successResponse(label+" record retrieved", record))
	}
}

func updateRecord[R recordRequest[T], T any](h *RecordsHandler, label string, sync func(rec, prev *T)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		dni := c.Param("dni")
		existing, err := store.GetRecord[T](ctx, h.store, dni, id)
		if err != nil {
			respondStoreError(c, err, "No "+label+" record with that id for that DNI")
			return
		}

		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid "+label+" payload: "+err.Error()))
			return
		}

		record, err := req.toModel(dni)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		sync(record, existing)

		if err := store.SaveRecord(ctx, h.store, middleware.SessionFrom(c), record); err != nil {
			respondStoreError(c, err, "No "+label+" record with that id for that DNI")
			return
		}

		h.cache.Invalidate(ctx, dni)
		c.JSON(http.StatusOK, successResponse(label+" record updated successfully", record))
	}
}

func deleteRecord[T any](h *RecordsHandler, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		dni := c.Param("dni")
		if err := store.DeleteRecord[T](ctx, h.store, middleware.SessionFrom(c), dni, id); err != nil {
			respondStoreError(c, err, "No "+label+" record with that id for that DNI")
			return
		}

		h.cache.Invalidate(ctx, dni)
		c.JSON(http.StatusOK, successResponse(label+" record deleted", nil))
	}
}

// RegisterRoutes mounts the uniform categories under the employee group.
func (h *RecordsHandler) RegisterRoutes(grp *gin.RouterGroup) {
	mount(grp, h, "family", "Family", func(rec, prev *models.FamilyMember) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, familyRequest{})
	mount(grp, h, "academics", "Academic", func(rec, prev *models.AcademicRecord) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, academicRequest{})
	mount(grp, h, "experience", "Work experience", func(rec, prev *models.WorkExperience) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, experienceRequest{})
	mount(grp, h, "publications", "Publication", func(rec, prev *models.Publication) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, publicationRequest{})
	mount(grp, h, "benefits", "Benefit", func(rec, prev *models.Benefit) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, benefitRequest{})
	mount(grp, h, "merits", "Merit", func(rec, prev *models.MeritEntry) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, meritRequest{})
	mount(grp, h, "evaluations", "Evaluation", func(rec, prev *models.Evaluation) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, evaluationRequest{})
	mount(grp, h, "settlements", "Settlement", func(rec, prev *models.Settlement) {
		rec.ID, rec.DNI, rec.CreatedAt = prev.ID, prev.DNI, prev.CreatedAt
	}, settlementRequest{})
}

func mount[R recordRequest[T], T any](grp *gin.RouterGroup, h *RecordsHandler, path, label string, sync func(rec, prev *T), _ R) {
	grp.POST("/"+path, createRecord[R, T](h, label))
	grp.GET("/"+path, listRecords[T](h, label))
	grp.GET("/"+path+"/:id", getRecord[T](h, label))
	grp.PUT("/"+path+"/:id", updateRecord[R, T](h, label, sync))
	grp.DELETE("/"+path+"/:id", deleteRecord[T](h, label))
}

// --- Request structs ---

type familyRequest struct {
	Parentesco      string `json:"parentesco" binding:"required"`
	Nombres         string `json:"nombres" binding:"required"`
	DNIFamiliar     string `json:"dni_familiar"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Observacion     string `json:"observacion"`
}

func (r familyRequest) toModel(dni string) (*models.FamilyMember, error) {
	nacimiento, err := parseDateField(r.FechaNacimiento)
	if err != nil {
		return nil, fmt.Errorf("fecha_nacimiento must be a valid YYYY-MM-DD date")
	}
	return &models.FamilyMember{
		DNI:             legacy.NormalizeDNI(dni),
		Parentesco:      r.Parentesco,
		Nombres:         r.Nombres,
		DNIFamiliar:     legacy.NormalizeDNI(r.DNIFamiliar),
		FechaNacimiento: nacimiento,
		Observacion:     r.Observacion,
	}, nil
}

type academicRequest struct {
	Grado       string `json:"grado" binding:"required"`
	Institucion string `json:"institucion"`
	Carrera     string `json:"carrera"`
	FechaEgreso string `json:"fecha_egreso"`
	Link        string `json:"link"`
}

func (r academicRequest) toModel(dni string) (*models.AcademicRecord, error) {
	egreso, err := parseDateField(r.FechaEgreso)
	if err != nil {
		return nil, fmt.Errorf("fecha_egreso must be a valid YYYY-MM-DD date")
	}
	return &models.AcademicRecord{
		DNI:         legacy.NormalizeDNI(dni),
		Grado:       r.Grado,
		Institucion: r.Institucion,
		Carrera:     r.Carrera,
		FechaEgreso: egreso,
		Link:        r.Link,
	}, nil
}

type experienceRequest struct {
	Institucion string `json:"institucion" binding:"required"`
	Cargo       string `json:"cargo"`
	FInicio     string `json:"f_inicio"`
	FFin        string `json:"f_fin"`
	Observacion string `json:"observacion"`
}

func (r experienceRequest) toModel(dni string) (*models.WorkExperience, error) {
	fInicio, err := parseDateField(r.FInicio)
	if err != nil {
		return nil, fmt.Errorf("f_inicio must be a valid YYYY-MM-DD date")
	}
	fFin, err := parseDateField(r.FFin)
	if err != nil {
		return nil, fmt.Errorf("f_fin must be a valid YYYY-MM-DD date")
	}
	return &models.WorkExperience{
		DNI:         legacy.NormalizeDNI(dni),
		Institucion: r.Institucion,
		Cargo:       r.Cargo,
		FInicio:     fInicio,
		FFin:        fFin,
		Observacion: r.Observacion,
	}, nil
}

type publicationRequest struct {
	Titulo  string `json:"titulo" binding:"required"`
	Revista string `json:"revista"`
	Fecha   string `json:"fecha"`
	Link    string `json:"link"`
}

func (r publicationRequest) toModel(dni string) (*models.Publication, error) {
	fecha, err := parseDateField(r.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha must be a valid YYYY-MM-DD date")
	}
	return &models.Publication{
		DNI:     legacy.NormalizeDNI(dni),
		Titulo:  r.Titulo,
		Revista: r.Revista,
		Fecha:   fecha,
		Link:    r.Link,
	}, nil
}

type benefitRequest struct {
	Tipo        string `json:"tipo" binding:"required"`
	Descripcion string `json:"descripcion"`
	Fecha       string `json:"fecha"`
	Monto       string `json:"monto"`
}

func (r benefitRequest) toModel(dni string) (*models.Benefit, error) {
	fecha, err := parseDateField(r.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha must be a valid YYYY-MM-DD date")
	}
	monto, err := parseAmountField(r.Monto)
	if err != nil {
		return nil, fmt.Errorf("monto must be a valid amount")
	}
	return &models.Benefit{
		DNI:         legacy.NormalizeDNI(dni),
		Tipo:        r.Tipo,
		Descripcion: r.Descripcion,
		Fecha:       fecha,
		Monto:       monto,
	}, nil
}

type meritRequest struct {
	Tipo      string `json:"tipo" binding:"required"`
	Motivo    string `json:"motivo" binding:"required"`
	Fecha     string `json:"fecha"`
	Documento string `json:"documento"`
}

func (r meritRequest) toModel(dni string) (*models.MeritEntry, error) {
	if r.Tipo != models.MeritoTipoMerito && r.Tipo != models.MeritoTipoDemerito {
		return nil, fmt.Errorf("tipo must be MERITO or DEMERITO")
	}
	fecha, err := parseDateField(r.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha must be a valid YYYY-MM-DD date")
	}
	return &models.MeritEntry{
		DNI:       legacy.NormalizeDNI(dni),
		Tipo:      r.Tipo,
		Motivo:    r.Motivo,
		Fecha:     fecha,
		Documento: r.Documento,
	}, nil
}

type evaluationRequest struct {
	Periodo      string `json:"periodo" binding:"required"`
	Puntaje      string `json:"puntaje"`
	Calificacion string `json:"calificacion"`
	Fecha        string `json:"fecha"`
}

func (r evaluationRequest) toModel(dni string) (*models.Evaluation, error) {
	fecha, err := parseDateField(r.Fecha)
	if err != nil {
		return nil, fmt.Errorf("fecha must be a valid YYYY-MM-DD date")
	}
	if r.Puntaje != "" {
		if _, err := parseAmountField(r.Puntaje); err != nil {
			return nil, fmt.Errorf("puntaje must be numeric")
		}
	}
	return &models.Evaluation{
		DNI:          legacy.NormalizeDNI(dni),
		Periodo:      r.Periodo,
		Puntaje:      r.Puntaje,
		Calificacion: r.Calificacion,
		Fecha:        fecha,
	}, nil
}

type settlementRequest struct {
	Motivo      string `json:"motivo" binding:"required"`
	Monto       string `json:"monto" binding:"required"`
	FechaPago   string `json:"fecha_pago"`
	Observacion string `json:"observacion"`
}

func (r settlementRequest) toModel(dni string) (*models.Settlement, error) {
	monto, err := parseAmountField(r.Monto)
	if err != nil {
		return nil, fmt.Errorf("monto must be a valid amount")
	}
	fechaPago, err := parseDateField(r.FechaPago)
	if err != nil {
		return nil, fmt.Errorf("fecha_pago must be a valid YYYY-MM-DD date")
	}
	return &models.Settlement{
		DNI:         legacy.NormalizeDNI(dni),
		Motivo:      r.Motivo,
		Monto:       monto,
		FechaPago:   fechaPago,
		Observacion: r.Observacion,
	}, nil
}
