package models

import "time"

// Contract lifecycle states. The legacy workbook stored these free-form;
// here estado is validated at the boundary and motivo_cese is mandatory
// for CESADO rows.
const (
	ContractActivo = "ACTIVO"
	ContractCesado = "CESADO"
)

// MotivosCese is the fixed termination-reason enumeration.
var MotivosCese = []string{
	"Termino de contrato",
	"Renuncia",
	"Despido",
	"Mutuo acuerdo",
	"Fallecimiento",
	"Otros",
}

func ValidMotivoCese(m string) bool {
	for _, v := range MotivosCese {
		if v == m {
			return true
		}
	}
	return false
}

const (
	MeritoTipoMerito   = "MERITO"
	MeritoTipoDemerito = "DEMERITO"
)

// Employee is the PERSONAL sheet: one row per worker, keyed by DNI.
// DNI is opaque text, normalized (trimmed, ".0" artifact stripped)
// before it ever reaches this layer.
type Employee struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI       string     `gorm:"uniqueIndex;not null" json:"dni"`
	Nombres   string     `gorm:"not null" json:"nombres"`
	Telefono  string     `json:"telefono,omitempty"`
	Correo    string     `json:"correo,omitempty"`
	Direccion string     `gorm:"type:text" json:"direccion,omitempty"`
	Link      string     `json:"link,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Contract struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI          string     `gorm:"index;not null" json:"dni"`
	Cargo        string     `gorm:"not null" json:"cargo"`
	Sueldo       string     `gorm:"type:varchar(32);not null" json:"sueldo"`
	FInicio      *time.Time `gorm:"not null" json:"f_inicio"`
	FFin         *time.Time `json:"f_fin,omitempty"`
	Tipo         string     `json:"tipo,omitempty"`
	Temporalidad string     `json:"temporalidad,omitempty"`
	Categoria    string     `json:"categoria,omitempty"`
	Planilla     bool       `gorm:"default:true" json:"planilla"`
	Estado       string     `gorm:"not null;default:'ACTIVO'" json:"estado"`
	MotivoCese   string     `json:"motivo_cese,omitempty"`
	Link         string     `json:"link,omitempty"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type FamilyMember struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI             string     `gorm:"index;not null" json:"dni"`
	Parentesco      string     `gorm:"not null" json:"parentesco"`
	Nombres         string     `gorm:"not null" json:"nombres"`
	DNIFamiliar     string     `json:"dni_familiar,omitempty"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
	Observacion     string     `gorm:"type:text" json:"observacion,omitempty"`
	CreatedAt       *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type AcademicRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI         string     `gorm:"index;not null" json:"dni"`
	Grado       string     `gorm:"not null" json:"grado"`
	Institucion string     `json:"institucion,omitempty"`
	Carrera     string     `json:"carrera,omitempty"`
	FechaEgreso *time.Time `json:"fecha_egreso,omitempty"`
	Link        string     `json:"link,omitempty"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type WorkExperience struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI         string     `gorm:"index;not null" json:"dni"`
	Institucion string     `gorm:"not null" json:"institucion"`
	Cargo       string     `json:"cargo,omitempty"`
	FInicio     *time.Time `json:"f_inicio,omitempty"`
	FFin        *time.Time `json:"f_fin,omitempty"`
	Observacion string     `gorm:"type:text" json:"observacion,omitempty"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Publication struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI       string     `gorm:"index;not null" json:"dni"`
	Titulo    string     `gorm:"not null" json:"titulo"`
	Revista   string     `json:"revista,omitempty"`
	Fecha     *time.Time `json:"fecha,omitempty"`
	Link      string     `json:"link,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

// VacationPeriod records recorded usage against an accrual window.
// Periodo uses the "YYYY-YYYY" window label produced by the accrual
// report so used days can be matched back to their window.
type VacationPeriod struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI           string     `gorm:"index;not null" json:"dni"`
	Periodo       string     `gorm:"not null" json:"periodo"`
	FInicio       *time.Time `json:"f_inicio,omitempty"`
	FFin          *time.Time `json:"f_fin,omitempty"`
	DiasGenerados string     `gorm:"type:varchar(32);default:'0'" json:"dias_generados"`
	DiasUsados    string     `gorm:"type:varchar(32);default:'0'" json:"dias_usados"`
	Saldo         string     `gorm:"type:varchar(32);default:'0'" json:"saldo"`
	CreatedAt     *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Benefit struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI         string     `gorm:"index;not null" json:"dni"`
	Tipo        string     `gorm:"not null" json:"tipo"`
	Descripcion string     `gorm:"type:text" json:"descripcion,omitempty"`
	Fecha       *time.Time `json:"fecha,omitempty"`
	Monto       string     `gorm:"type:varchar(32);default:'0'" json:"monto"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type MeritEntry struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI       string     `gorm:"index;not null" json:"dni"`
	Tipo      string     `gorm:"not null" json:"tipo"` // MERITO or DEMERITO
	Motivo    string     `gorm:"type:text;not null" json:"motivo"`
	Fecha     *time.Time `json:"fecha,omitempty"`
	Documento string     `json:"documento,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Evaluation struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI          string     `gorm:"index;not null" json:"dni"`
	Periodo      string     `gorm:"not null" json:"periodo"`
	Puntaje      string     `gorm:"type:varchar(32)" json:"puntaje,omitempty"`
	Calificacion string     `json:"calificacion,omitempty"`
	Fecha        *time.Time `json:"fecha,omitempty"`
	CreatedAt    *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Settlement struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DNI         string     `gorm:"index;not null" json:"dni"`
	Motivo      string     `gorm:"not null" json:"motivo"`
	Monto       string     `gorm:"type:varchar(32);not null" json:"monto"`
	FechaPago   *time.Time `json:"fecha_pago,omitempty"`
	Observacion string     `gorm:"type:text" json:"observacion,omitempty"`
	CreatedAt   *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}
