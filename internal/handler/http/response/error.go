package response

import (
	"errors"
	"net/http"

	"github.com/pontohub/ponto-backend-go/internal/domain/attachment"
	"github.com/pontohub/ponto-backend-go/internal/domain/auth"
	"github.com/pontohub/ponto-backend-go/internal/domain/collaborator"
	"github.com/pontohub/ponto-backend-go/internal/domain/vendor"
	"github.com/pontohub/ponto-backend-go/internal/pkg/database"
	"github.com/pontohub/ponto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "Missing authorization token")

	// Vendor errors
	case vendor.IsAuthError(err):
		BadGateway(w, "Vendor rejected the request")
	case errors.Is(err, vendor.ErrUnavailable):
		BadGateway(w, "Vendor unavailable")
	case errors.Is(err, vendor.ErrInvalidDate):
		BadRequest(w, "Invalid date format, use YYYY-MM-DD or DD/MM/YYYY", nil)

	// SQL-backed domains
	case errors.Is(err, database.ErrNotConnected):
		ServiceUnavailable(w, "Database not connected")
	case errors.Is(err, collaborator.ErrCollaboratorNotFound):
		NotFound(w, "Collaborator not found")
	case errors.Is(err, collaborator.ErrNoCPFsProvided):
		BadRequest(w, "CPF list is required", nil)
	case errors.Is(err, attachment.ErrAttachmentNotFound):
		NotFound(w, "Attachment not found")
	case errors.Is(err, attachment.ErrInvalidImage):
		BadRequest(w, "Image payload is not valid base64", nil)
	case errors.Is(err, attachment.ErrStorageUnavailable):
		ServiceUnavailable(w, "Blob storage unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
