package attachment

import "errors"

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidImage       = errors.New("image payload is not valid base64")
	ErrStorageUnavailable = errors.New("blob storage unavailable")
)
