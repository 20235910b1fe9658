package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	GetBalances(w http.ResponseWriter, r *http.Request)
	UpdateBalances(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// GetBalances implements EmployeeHandler.
func (h *employeeHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetBalances(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateBalances implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateBalances(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateOpeningBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Code = chi.URLParam(r, "code")

	result, err := h.employeeService.UpdateOpeningBalances(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Opening balances updated", result)
}
