package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

type successResponse struct {
	Success    bool                `json:"success"`
	Data       interface{}         `json:"data"`
	Pagination *usecase.Pagination `json:"pagination,omitempty"`
}

type errorResponse struct {
	Success bool                      `json:"success"`
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Errors  []usecase.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successResponse{Success: true, Data: data})
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Success: false, Code: code, Message: message})
}

func writeValidationErrors(w http.ResponseWriter, fields []usecase.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Success: false,
		Code:    usecase.CodeValidation,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// writeUseCaseError maps a use case error to its HTTP status. Anything that
// is not a DomainError is reported as a 500 without leaking details.
func writeUseCaseError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		switch de.Code {
		case usecase.CodeNotFound:
			writeErrorResponse(w, http.StatusNotFound, de.Code, de.Message)
		case usecase.CodeValidation:
			if len(de.Fields) > 0 {
				writeValidationErrors(w, de.Fields)
				return
			}
			writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
		default:
			writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
		}
		return
	}

	logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeInternal, "Server error")
}
