package collaborator

import "context"

type Service interface {
	List(ctx context.Context) ([]Collaborator, error)
	GetByID(ctx context.Context, id int64) (Collaborator, error)
	GetByReg(ctx context.Context, reg string) (Collaborator, error)
	GetByCPF(ctx context.Context, cpf string) (Collaborator, error)
	BatchByCPF(ctx context.Context, req BatchCPFRequest) ([]Collaborator, error)
	ByCompany(ctx context.Context, company string) ([]Collaborator, error)
	Create(ctx context.Context, req CreateCollaboratorRequest) (Collaborator, error)
	Update(ctx context.Context, id int64, req UpdateCollaboratorRequest) (Collaborator, error)
	Delete(ctx context.Context, id int64) error
}
