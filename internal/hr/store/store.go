package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/legacy"
)

var (
	// ErrReadOnly is returned for any mutation attempted by a session
	// whose role cannot write. The gate lives here, below the handlers,
	// so a directly crafted request cannot bypass it.
	ErrReadOnly = errors.New("role is not allowed to modify records")
	ErrNotFound = gorm.ErrRecordNotFound
)

// Session is the authenticated caller, passed explicitly into every
// mutating operation.
type Session struct {
	UserID   int64
	Username string
	Role     string
}

func (s *Session) CanWrite() bool {
	return s != nil && models.CanWrite(s.Role)
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) guard(sess *Session) error {
	if !sess.CanWrite() {
		return ErrReadOnly
	}
	return nil
}

// --- Employees ---

func (s *Store) FindEmployeeByDNI(ctx context.Context, dni string) (*models.Employee, error) {
	var e models.Employee
	err := s.db.WithContext(ctx).Where("dni = ?", legacy.NormalizeDNI(dni)).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, page, pageSize int) ([]models.Employee, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Order("nombres").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&employees).Error
	return employees, total, err
}

func (s *Store) CreateEmployee(ctx context.Context, sess *Session, e *models.Employee) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	e.DNI = legacy.NormalizeDNI(e.DNI)
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) UpdateEmployee(ctx context.Context, sess *Session, e *models.Employee) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	e.DNI = legacy.NormalizeDNI(e.DNI)
	return s.db.WithContext(ctx).Save(e).Error
}

// DeleteEmployee removes the employee row together with every dependent
// category row, in one transaction. Deletion is unrecoverable.
func (s *Store) DeleteEmployee(ctx context.Context, sess *Session, dni string) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	dni = legacy.NormalizeDNI(dni)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("dni = ?", dni).Delete(&models.Employee{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		for _, m := range []interface{}{
			&models.Contract{}, &models.FamilyMember{}, &models.AcademicRecord{},
			&models.WorkExperience{}, &models.Publication{}, &models.VacationPeriod{},
			&models.Benefit{}, &models.MeritEntry{}, &models.Evaluation{}, &models.Settlement{},
		} {
			if err := tx.Where("dni = ?", dni).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Per-category records ---
//
// Every category row carries an autoincrement id and a dni column, so one
// typed engine replaces the near-duplicate CRUD screens of the legacy
// system. Records are always addressed by id scoped to the employee.

func ListRecords[T any](ctx context.Context, s *Store, dni string) ([]T, error) {
	var records []T
	err := s.db.WithContext(ctx).
		Where("dni = ?", legacy.NormalizeDNI(dni)).
		Order("id").
		Find(&records).Error
	return records, err
}

func GetRecord[T any](ctx context.Context, s *Store, dni string, id int64) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).
		Where("id = ? AND dni = ?", id, legacy.NormalizeDNI(dni)).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func CreateRecord[T any](ctx context.Context, s *Store, sess *Session, record *T) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func SaveRecord[T any](ctx context.Context, s *Store, sess *Session, record *T) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(record).Error
}

func DeleteRecord[T any](ctx context.Context, s *Store, sess *Session, dni string, id int64) error {
	if err := s.guard(sess); err != nil {
		return err
	}
	var zero T
	res := s.db.WithContext(ctx).
		Where("id = ? AND dni = ?", id, legacy.NormalizeDNI(dni)).
		Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Dossier ---

// Dossier is the full cross-category view of one employee, the unit the
// consultation screen renders and the redis cache stores.
type Dossier struct {
	Employee        models.Employee         `json:"personal"`
	Contratos       []models.Contract       `json:"contratos"`
	Familia         []models.FamilyMember   `json:"familia"`
	FormacionAcad   []models.AcademicRecord `json:"formacion_academica"`
	ExpLaboral      []models.WorkExperience `json:"experiencia_laboral"`
	Investigaciones []models.Publication    `json:"investigaciones"`
	Vacaciones      []models.VacationPeriod `json:"vacaciones"`
	Beneficios      []models.Benefit        `json:"beneficios"`
	Meritos         []models.MeritEntry     `json:"meritos"`
	Evaluaciones    []models.Evaluation     `json:"evaluaciones"`
	Liquidaciones   []models.Settlement     `json:"liquidaciones"`
}

func (s *Store) LoadDossier(ctx context.Context, dni string) (*Dossier, error) {
	employee, err := s.FindEmployeeByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}

	d := &Dossier{Employee: *employee}
	if d.Contratos, err = ListRecords[models.Contract](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Familia, err = ListRecords[models.FamilyMember](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.FormacionAcad, err = ListRecords[models.AcademicRecord](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.ExpLaboral, err = ListRecords[models.WorkExperience](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Investigaciones, err = ListRecords[models.Publication](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Vacaciones, err = ListRecords[models.VacationPeriod](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Beneficios, err = ListRecords[models.Benefit](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Meritos, err = ListRecords[models.MeritEntry](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Evaluaciones, err = ListRecords[models.Evaluation](ctx, s, dni); err != nil {
		return nil, err
	}
	if d.Liquidaciones, err = ListRecords[models.Settlement](ctx, s, dni); err != nil {
		return nil, err
	}
	return d, nil
}
