package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/services"
)

// maxUploadBytes caps one payslip PDF.
const maxUploadBytes = 10 << 20

type provisionResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}

// handleProvisionEmployee implements the published provisioning contract:
// 200 {success,user_id}, 401 anonymous, 403 non-admin, 400 bad input or
// downstream failure, 500 otherwise. Gating happens in the service so the
// order is fixed there, not in middleware.
func (s *Server) handleProvisionEmployee(w http.ResponseWriter, r *http.Request) {
	var req services.ProvisionRequest
	if err := decodeJSON(r, &req); err != nil {
		// Defer the malformed-body verdict to the service gates: an
		// anonymous caller with a broken body still gets 401.
		req = services.ProvisionRequest{}
	}

	userID, err := s.provision.ProvisionEmployee(r.Context(), sessionFrom(r.Context()), &req)
	if err != nil {
		if errors.Is(err, common.ErrDownstreamFailure) {
			renderJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
			return
		}
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, provisionResponse{Success: true, UserID: userID})
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	list, err := s.employees.Directory(r.Context(), sessionFrom(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeJSON(r, &profile); err != nil {
		renderError(w, err)
		return
	}

	userID := mux.Vars(r)["id"]
	if _, err := s.employees.UpdateProfile(r.Context(), sessionFrom(r.Context()), userID, &profile); err != nil {
		renderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEmployeePayslips(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	list, err := s.payslips.ListForUser(r.Context(), sessionFrom(r.Context()), userID)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, list)
}

func (s *Server) handleUploadPayslip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		renderJSON(w, http.StatusBadRequest, apiError{Error: "invalid argument: multipart form expected"})
		return
	}

	year, _ := strconv.Atoi(r.FormValue("year"))
	month, _ := strconv.Atoi(r.FormValue("month"))

	file, header, err := r.FormFile("file")
	if err != nil {
		renderJSON(w, http.StatusBadRequest, apiError{Error: "invalid argument: file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		renderError(w, common.ErrorInternal)
		return
	}

	payslip, err := s.payslips.Upload(r.Context(), sessionFrom(r.Context()), &services.UploadRequest{
		UserID:   mux.Vars(r)["id"],
		Year:     year,
		Month:    month,
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, payslip)
}
