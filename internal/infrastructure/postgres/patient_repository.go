package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

const patientColumns = `id, document_number, first_name, last_name, birth_date, gender, phone, email, address, blood_type, allergies, status, created_at, updated_at`

// PatientRepo implementación del puerto PatientRepository sobre PostgreSQL.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador de persistencia para pacientes.
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

func scanPatient(row rowScanner) (*entity.Patient, error) {
	var p entity.Patient
	err := row.Scan(&p.ID, &p.DocumentNumber, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.BloodType, &p.Allergies, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo paciente.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Phone, p.Email,
		p.Address, p.BloodType, p.Allergies, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PatientRepo) findOne(ctx context.Context, where string, arg any) (*entity.Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// GetByID obtiene un paciente por ID.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByDocument obtiene un paciente por número de documento.
func (r *PatientRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Patient, error) {
	return r.findOne(ctx, "document_number = $1", documentNumber)
}

// Update actualiza la ficha completa salvo el documento.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE patients SET first_name = $2, last_name = $3, birth_date = $4, gender = $5, phone = $6, email = $7,
			address = $8, blood_type = $9, allergies = $10, status = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Phone, p.Email,
		p.Address, p.BloodType, p.Allergies, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista pacientes por apellido; search filtra por documento o nombre.
func (r *PatientRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	var args []any
	if search != "" {
		query += ` WHERE document_number LIKE $1 OR lower(first_name || ' ' || last_name) LIKE $1`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY last_name, first_name`
	query, args = paginate(query, args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
