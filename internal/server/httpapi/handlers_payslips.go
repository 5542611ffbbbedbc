package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/viniciusdvieira/payslip-portal/internal/server/services"
)

type signedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

func (s *Server) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	list, err := s.payslips.List(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, list)
}

func (s *Server) handleViewPayslip(w http.ResponseWriter, r *http.Request) {
	s.handleAccess(w, r, services.ActionView)
}

func (s *Server) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	s.handleAccess(w, r, services.ActionDownload)
}

func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request, action services.AccessAction) {
	payslipID := mux.Vars(r)["id"]

	res, err := s.payslips.Access(r.Context(), sessionFrom(r.Context()), payslipID, action)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, signedURLResponse{
		URL:       res.URL,
		ExpiresIn: s.signedURLSeconds,
	})
}
