package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument     = 1000
	ErrCodeInvalidJSON         = 1001
	ErrCodeRequestTooLarge     = 1002
	ErrCodeInvalidID           = 1004
	ErrCodeInvalidDocumentType = 1006
	ErrCodeMissingRequired     = 1009
	ErrCodeInvalidUsername     = 1014
	ErrCodeInvalidEmail        = 1015
	ErrCodeInvalidPassword     = 1016

	// Domain state (2xxx)
	ErrCodeUserNotFound       = 2001
	ErrCodeDocumentNotFound   = 2002
	ErrCodeNoteNotFound       = 2003
	ErrCodeEmailExists        = 2101
	ErrCodeBlobExists         = 2102
	ErrCodeNoteNameExists     = 2103
	ErrCodeDocumentNameExists = 2104
	ErrCodeUsernameExists     = 2105
	ErrCodeConflict           = 2106

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001
	ErrCodeForbidden    = 3002

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeBlobFailure  = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodeUserNotFound
	case 409:
		return ErrCodeConflict
	case 424:
		return ErrCodeDocumentNotFound
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
