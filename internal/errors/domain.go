package errors

import (
	"net/http"

	"hypotest/domain/core"
)

// FromDomain converts an evaluation or lookup error into an AppError whose
// code names the domain kind. AppErrors pass through unchanged.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	code := CodeInternalError
	switch core.ErrorKind(err) {
	case "InvalidParameter":
		code = CodeInvalidParameter
	case "InsufficientData":
		code = CodeInsufficientData
	case "DimensionMismatch":
		code = CodeDimensionMismatch
	case "DistributionError":
		code = CodeDistributionError
	case "NotFound":
		code = CodeNotFound
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error code to the response status front ends use
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidParameter, CodeInsufficientData, CodeDimensionMismatch,
		CodeDistributionError, CodeInvalidInput, CodeValidationError:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConfigInvalid, CodeDatabaseError, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
