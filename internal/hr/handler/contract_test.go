package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sistema-gth/internal/database"
	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/store"
)

var (
	editorSession   = &store.Session{UserID: 1, Username: "editor", Role: models.RoleEditor}
	consultaSession = &store.Session{UserID: 2, Username: "consulta", Role: models.RoleConsulta}
)

func testRouter(t *testing.T, sess *store.Session) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	st := store.New(db)
	h := NewContractHandler(st, NewDossierCache(nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, sess)
		c.Next()
	})
	contracts := r.Group("/employees/:dni/contracts")
	contracts.POST("", h.Create)
	contracts.GET("", h.List)
	contracts.GET("/:id", h.Get)
	contracts.PUT("/:id", h.Update)
	contracts.DELETE("/:id", h.Delete)
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestContractRequestValidation(t *testing.T) {
	cases := []struct {
		name string
		req  ContractRequest
	}{
		{"missing f_inicio", ContractRequest{Cargo: "Docente", Sueldo: "2500"}},
		{"malformed f_inicio", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "01/01/2022"}},
		{"malformed f_fin", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01", FFin: "nunca"}},
		{"f_fin before f_inicio", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-06-01", FFin: "2022-01-01"}},
		{"bad sueldo", ContractRequest{Cargo: "Docente", Sueldo: "dos mil", FInicio: "2022-01-01"}},
		{"unknown estado", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01", Estado: "SUSPENDIDO"}},
		{"activo with motivo", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01", Estado: models.ContractActivo, MotivoCese: "Renuncia"}},
		{"cesado without motivo", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01", FFin: "2022-12-31", Estado: models.ContractCesado}},
		{"cesado with unknown motivo", ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01", FFin: "2022-12-31", Estado: models.ContractCesado, MotivoCese: "Se fue"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.req.toModel("12345678")
			assert.Error(t, err)
		})
	}
}

func TestContractRequestDefaults(t *testing.T) {
	req := ContractRequest{Cargo: "Docente", Sueldo: "2500.50", FInicio: "2022-01-01"}
	contract, warnings, err := req.toModel(" 12345678.0 ")
	require.NoError(t, err)

	assert.Equal(t, "12345678", contract.DNI)
	assert.Equal(t, models.ContractActivo, contract.Estado)
	assert.True(t, contract.Planilla)
	assert.Equal(t, "2500.5", contract.Sueldo)
	assert.Empty(t, warnings)
}

func TestContractRequestCesado(t *testing.T) {
	req := ContractRequest{
		Cargo:      "Docente",
		Sueldo:     "2500",
		FInicio:    "2022-01-01",
		FFin:       "2022-12-31",
		Estado:     models.ContractCesado,
		MotivoCese: "Renuncia",
	}
	contract, warnings, err := req.toModel("12345678")
	require.NoError(t, err)
	assert.Equal(t, models.ContractCesado, contract.Estado)
	assert.Equal(t, "Renuncia", contract.MotivoCese)
	assert.Empty(t, warnings)
}

func TestContractRequestPastEndDateWarns(t *testing.T) {
	req := ContractRequest{Cargo: "Docente", Sueldo: "2500", FInicio: "2020-01-01", FFin: "2020-12-31"}
	contract, warnings, err := req.toModel("12345678")
	require.NoError(t, err)

	// The contract stays ACTIVO as entered; the stale end date only warns.
	assert.Equal(t, models.ContractActivo, contract.Estado)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "end date is in the past")
}

func TestContractCreateRequiresEmployee(t *testing.T) {
	r, _ := testRouter(t, editorSession)

	w, resp := doJSON(t, r, http.MethodPost, "/employees/99999999/contracts", ContractRequest{
		Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
}

func TestContractCreateAndGet(t *testing.T) {
	r, st := testRouter(t, editorSession)
	ctx := context.Background()
	require.NoError(t, st.CreateEmployee(ctx, editorSession, &models.Employee{DNI: "12345678", Nombres: "JUAN PEREZ"}))

	w, resp := doJSON(t, r, http.MethodPost, "/employees/12345678/contracts", ContractRequest{
		Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	w, resp = doJSON(t, r, http.MethodGet, "/employees/12345678/contracts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	// Same id under another DNI must not resolve.
	w, _ = doJSON(t, r, http.MethodGet, "/employees/87654321/contracts/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContractMutationsForbiddenForConsulta(t *testing.T) {
	r, st := testRouter(t, consultaSession)
	ctx := context.Background()
	require.NoError(t, st.CreateEmployee(ctx, editorSession, &models.Employee{DNI: "12345678", Nombres: "JUAN PEREZ"}))

	w, resp := doJSON(t, r, http.MethodPost, "/employees/12345678/contracts", ContractRequest{
		Cargo: "Docente", Sueldo: "2500", FInicio: "2022-01-01",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, resp.Success)

	// Reads stay open for the consultation role.
	w, resp = doJSON(t, r, http.MethodGet, "/employees/12345678/contracts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}
