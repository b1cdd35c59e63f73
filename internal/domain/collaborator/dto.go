package collaborator

import "github.com/pontohub/ponto-backend-go/internal/pkg/validator"

type CreateCollaboratorRequest struct {
	Reg     string  `json:"Reg"`
	Name    string  `json:"Nome"`
	CPF     string  `json:"CPF"`
	Company string  `json:"Empresa"`
	Email   *string `json:"Email,omitempty"`
	Phone   *string `json:"Telefone,omitempty"`
}

func (r *CreateCollaboratorRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reg) {
		errs = append(errs, validator.ValidationError{
			Field:   "Reg",
			Message: "Reg is required",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "Nome",
			Message: "Nome is required",
		})
	}
	if !validator.IsValidCPF(r.CPF) {
		errs = append(errs, validator.ValidationError{
			Field:   "CPF",
			Message: "CPF must have 11 digits",
		})
	}
	if validator.IsEmpty(r.Company) {
		errs = append(errs, validator.ValidationError{
			Field:   "Empresa",
			Message: "Empresa is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateCollaboratorRequest struct {
	Reg     string  `json:"Reg"`
	Name    string  `json:"Nome"`
	CPF     string  `json:"CPF"`
	Company string  `json:"Empresa"`
	Email   *string `json:"Email,omitempty"`
	Phone   *string `json:"Telefone,omitempty"`
}

func (r *UpdateCollaboratorRequest) Validate() error {
	c := CreateCollaboratorRequest(*r)
	return c.Validate()
}

type BatchCPFRequest struct {
	CPFs []string `json:"cpfs"`
}

func (r *BatchCPFRequest) Validate() error {
	if len(r.CPFs) == 0 {
		return ErrNoCPFsProvided
	}
	return nil
}
