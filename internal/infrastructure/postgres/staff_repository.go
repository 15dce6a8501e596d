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

var _ repository.StaffRepository = (*StaffRepo)(nil)

const staffColumns = `id, document_number, first_name, last_name, position, specialty, license_number, phone, email, hire_date, status, created_at, updated_at`

// StaffRepo implementación del puerto StaffRepository sobre PostgreSQL.
type StaffRepo struct {
	q Querier
}

// NewStaffRepository construye el adaptador de persistencia para el personal.
func NewStaffRepository(q Querier) *StaffRepo {
	return &StaffRepo{q: q}
}

func scanStaff(row rowScanner) (*entity.Staff, error) {
	var s entity.Staff
	err := row.Scan(&s.ID, &s.DocumentNumber, &s.FirstName, &s.LastName, &s.Position, &s.Specialty,
		&s.LicenseNumber, &s.Phone, &s.Email, &s.HireDate, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un miembro del personal.
func (r *StaffRepo) Create(ctx context.Context, s *entity.Staff) error {
	query := `INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.DocumentNumber, s.FirstName, s.LastName, s.Position, s.Specialty,
		s.LicenseNumber, s.Phone, s.Email, s.HireDate, s.Status, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *StaffRepo) findOne(ctx context.Context, where string, arg any) (*entity.Staff, error) {
	s, err := scanStaff(r.q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return s, nil
}

// GetByID obtiene un miembro del personal por ID.
func (r *StaffRepo) GetByID(ctx context.Context, id string) (*entity.Staff, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByDocument obtiene un miembro del personal por documento.
func (r *StaffRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Staff, error) {
	return r.findOne(ctx, "document_number = $1", documentNumber)
}

// Update actualiza los datos del personal salvo el documento.
func (r *StaffRepo) Update(ctx context.Context, s *entity.Staff) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE staff SET first_name = $2, last_name = $3, position = $4, specialty = $5, license_number = $6,
			phone = $7, email = $8, hire_date = $9, status = $10, updated_at = $11
		WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Position, s.Specialty, s.LicenseNumber,
		s.Phone, s.Email, s.HireDate, s.Status, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista el personal; position filtra por cargo y search por documento o nombre.
func (r *StaffRepo) List(ctx context.Context, search, position string, limit, offset int) ([]*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE 1 = 1`
	var args []any
	if position != "" {
		args = append(args, position)
		query += fmt.Sprintf(" AND position = $%d", len(args))
	}
	if search != "" {
		args = append(args, likePattern(search))
		query += fmt.Sprintf(" AND (document_number LIKE $%[1]d OR lower(first_name || ' ' || last_name) LIKE $%[1]d)", len(args))
	}
	query += ` ORDER BY last_name, first_name`
	query, args = paginate(query, args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()
	var list []*entity.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
