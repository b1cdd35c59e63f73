package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/pontohub/ponto-backend-go/internal/domain/collaborator"
	"github.com/pontohub/ponto-backend-go/internal/pkg/database"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

const collaboratorColumns = "id, reg, nome, cpf, empresa, email, telefone"

// normalizedCPF strips punctuation from the stored column so lookups are
// punctuation-insensitive on both sides.
const normalizedCPF = "REPLACE(REPLACE(REPLACE(cpf, '.', ''), '-', ''), ' ', '')"

type collaboratorRepositoryImpl struct {
	db *database.DB
}

func NewCollaboratorRepository(db *database.DB) collaborator.CollaboratorRepository {
	return &collaboratorRepositoryImpl{db: db}
}

func scanCollaborator(row pgx.Row) (collaborator.Collaborator, error) {
	var c collaborator.Collaborator
	err := row.Scan(&c.ID, &c.Reg, &c.Name, &c.CPF, &c.Company, &c.Email, &c.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return collaborator.Collaborator{}, collaborator.ErrCollaboratorNotFound
	}
	return c, err
}

func collectCollaborators(rows pgx.Rows) ([]collaborator.Collaborator, error) {
	defer rows.Close()

	var result []collaborator.Collaborator
	for rows.Next() {
		var c collaborator.Collaborator
		if err := rows.Scan(&c.ID, &c.Reg, &c.Name, &c.CPF, &c.Company, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// List implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) List(ctx context.Context) ([]collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, "SELECT "+collaboratorColumns+" FROM colaboradores ORDER BY nome")
	if err != nil {
		return nil, err
	}
	return collectCollaborators(rows)
}

// GetByID implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) GetByID(ctx context.Context, id int64) (collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	return scanCollaborator(q.QueryRow(ctx,
		"SELECT "+collaboratorColumns+" FROM colaboradores WHERE id = $1", id))
}

// GetByReg implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) GetByReg(ctx context.Context, reg string) (collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	return scanCollaborator(q.QueryRow(ctx,
		"SELECT "+collaboratorColumns+" FROM colaboradores WHERE reg = $1", reg))
}

// GetByCPF implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) GetByCPF(ctx context.Context, cpf string) (collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	return scanCollaborator(q.QueryRow(ctx,
		"SELECT "+collaboratorColumns+" FROM colaboradores WHERE "+normalizedCPF+" = $1",
		validator.NormalizeCPF(cpf)))
}

// BatchByCPF implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) BatchByCPF(ctx context.Context, cpfs []string) ([]collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		"SELECT "+collaboratorColumns+" FROM colaboradores WHERE "+normalizedCPF+" = ANY($1)", cpfs)
	if err != nil {
		return nil, err
	}
	return collectCollaborators(rows)
}

// ByCompany implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) ByCompany(ctx context.Context, company string) ([]collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx,
		"SELECT "+collaboratorColumns+" FROM colaboradores WHERE empresa = $1 ORDER BY nome", company)
	if err != nil {
		return nil, err
	}
	return collectCollaborators(rows)
}

// Create implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) Create(ctx context.Context, req collaborator.CreateCollaboratorRequest) (collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	query := `
		INSERT INTO colaboradores (reg, nome, cpf, empresa, email, telefone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + collaboratorColumns

	var c collaborator.Collaborator
	err = q.QueryRow(ctx, query, req.Reg, req.Name, req.CPF, req.Company, req.Email, req.Phone).
		Scan(&c.ID, &c.Reg, &c.Name, &c.CPF, &c.Company, &c.Email, &c.Phone)
	if err != nil {
		return collaborator.Collaborator{}, err
	}
	return c, nil
}

// Update implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) Update(ctx context.Context, id int64, req collaborator.UpdateCollaboratorRequest) (collaborator.Collaborator, error) {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return collaborator.Collaborator{}, err
	}

	query := `
		UPDATE colaboradores
		SET reg = $1, nome = $2, cpf = $3, empresa = $4, email = $5, telefone = $6
		WHERE id = $7
		RETURNING ` + collaboratorColumns

	return scanCollaborator(q.QueryRow(ctx, query,
		req.Reg, req.Name, req.CPF, req.Company, req.Email, req.Phone, id))
}

// Delete implements collaborator.CollaboratorRepository.
func (r *collaboratorRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q, err := GetQuerier(ctx, r.db)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, "DELETE FROM colaboradores WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return collaborator.ErrCollaboratorNotFound
	}
	return nil
}
