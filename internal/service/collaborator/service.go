package collaborator

import (
	"context"

	"github.com/pontohub/ponto-backend-go/internal/domain/collaborator"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

// SQL parameter ceiling per batch lookup.
const maxBatchCPFs = 1000

type service struct {
	repo collaborator.CollaboratorRepository
}

func NewService(repo collaborator.CollaboratorRepository) collaborator.Service {
	return &service{repo: repo}
}

// List implements collaborator.Service.
func (s *service) List(ctx context.Context) ([]collaborator.Collaborator, error) {
	return s.repo.List(ctx)
}

// GetByID implements collaborator.Service.
func (s *service) GetByID(ctx context.Context, id int64) (collaborator.Collaborator, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByReg implements collaborator.Service.
func (s *service) GetByReg(ctx context.Context, reg string) (collaborator.Collaborator, error) {
	return s.repo.GetByReg(ctx, reg)
}

// GetByCPF implements collaborator.Service.
func (s *service) GetByCPF(ctx context.Context, cpf string) (collaborator.Collaborator, error) {
	return s.repo.GetByCPF(ctx, cpf)
}

// BatchByCPF implements collaborator.Service. CPFs are normalized to
// digits; blanks are dropped and the list is capped at the batch limit.
func (s *service) BatchByCPF(ctx context.Context, req collaborator.BatchCPFRequest) ([]collaborator.Collaborator, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cpfs := req.CPFs
	if len(cpfs) > maxBatchCPFs {
		cpfs = cpfs[:maxBatchCPFs]
	}

	normalized := make([]string, 0, len(cpfs))
	for _, cpf := range cpfs {
		clean := validator.NormalizeCPF(cpf)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}
	if len(normalized) == 0 {
		return []collaborator.Collaborator{}, nil
	}

	return s.repo.BatchByCPF(ctx, normalized)
}

// ByCompany implements collaborator.Service.
func (s *service) ByCompany(ctx context.Context, company string) ([]collaborator.Collaborator, error) {
	return s.repo.ByCompany(ctx, company)
}

// Create implements collaborator.Service.
func (s *service) Create(ctx context.Context, req collaborator.CreateCollaboratorRequest) (collaborator.Collaborator, error) {
	if err := req.Validate(); err != nil {
		return collaborator.Collaborator{}, err
	}
	return s.repo.Create(ctx, req)
}

// Update implements collaborator.Service.
func (s *service) Update(ctx context.Context, id int64, req collaborator.UpdateCollaboratorRequest) (collaborator.Collaborator, error) {
	if err := req.Validate(); err != nil {
		return collaborator.Collaborator{}, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete implements collaborator.Service.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
