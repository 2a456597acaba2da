package http

import (
	"errors"
	"net/http"

	"financepro/internal/core"
	"financepro/internal/ledger"
)

// respond answers a command endpoint from the service result.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, res ledger.Result, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCommandResponse(res))
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) handleApplyTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	cmd, err := req.command()
	if err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := s.svc.ApplyTransaction(r.Context(), cmd)
	s.respond(w, r, res, err)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := s.svc.UpdateTransaction(r.Context(), ledger.UpdateTransaction{
		ID:          r.PathValue("id"),
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
	})
	s.respond(w, r, res, err)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.DeleteTransaction(r.Context(), r.PathValue("id"))
	s.respond(w, r, res, err)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	cmd, err := req.command()
	if err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := s.svc.Transfer(r.Context(), cmd)
	s.respond(w, r, res, err)
}

func (s *Server) handleDeleteTransfer(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.DeleteTransfer(r.Context(), r.PathValue("id"))
	s.respond(w, r, res, err)
}

func (s *Server) handleSaveMethod(w http.ResponseWriter, r *http.Request) {
	var m core.PaymentMethod
	if err := decodeJSON(w, r, &m); err != nil {
		badRequest(w, r, err)
		return
	}
	m.Name = sanitizeInput(m.Name)
	m.Subtitle = sanitizeInput(m.Subtitle)
	res, err := s.svc.SaveMethod(r.Context(), m)
	s.respond(w, r, res, err)
}

func (s *Server) handleFinishMethodsSetup(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.FinishMethodsSetup(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSetupResponse(res))
}

func (s *Server) handleReplaceDebts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Debts []core.DebtItem `json:"debts"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := s.svc.ReplaceDebts(r.Context(), req.Debts)
	s.respond(w, r, res, err)
}

func (s *Server) handleReplaceSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sections []core.BudgetSection `json:"sections"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := s.svc.ReplaceSections(r.Context(), req.Sections)
	s.respond(w, r, res, err)
}

func (s *Server) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.MarkNotificationsRead(r.Context())
	s.respond(w, r, res, err)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.DismissNotification(r.Context(), r.PathValue("id"))
	s.respond(w, r, res, err)
}

func (s *Server) handleCheckReminders(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.CheckReminders(r.Context())
	s.respond(w, r, res, err)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	rev, err := s.svc.Undo(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, commandResponse{Changed: true, Revision: rev, Kind: ledger.LedgerUndone})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Reset(r.Context())
	s.respond(w, r, res, err)
}

type onboardingResponse struct {
	Complete bool `json:"complete"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	done, err := s.svc.OnboardingComplete(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, onboardingResponse{Complete: done})
}

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.CompleteOnboarding(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, onboardingResponse{Complete: true})
}
