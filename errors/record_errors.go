// api/errors/record_errors.go
package errors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidProjectData = errors.New("invalid project data")
	ErrInvalidTaskData    = errors.New("invalid task data")

	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnknownService    = errors.New("unknown service")
)
