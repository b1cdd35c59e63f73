package collaborator

import "errors"

var (
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrNoCPFsProvided       = errors.New("cpf list cannot be empty")
)
