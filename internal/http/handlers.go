package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/ledger"
	"tesouraria/internal/report"
)

type recordPayload struct {
	ServiceDescription string `json:"service_description"`
	CountedBy          string `json:"counted_by"`
	DonorName          string `json:"donor_name"`
	Amount             string `json:"amount"`
	Category           string `json:"category"`
	PaymentMethod      string `json:"payment_method"`
	Date               string `json:"date,omitempty"`
}

type recordResponse struct {
	ID                 string `json:"id"`
	ServiceDescription string `json:"service_description"`
	CountedBy          string `json:"counted_by"`
	DonorName          string `json:"donor_name"`
	Amount             string `json:"amount"`
	Category           string `json:"category"`
	PaymentMethod      string `json:"payment_method"`
	CreatedAt          string `json:"created_at"`
}

func toRecordResponse(r core.Record) recordResponse {
	return recordResponse{
		ID:                 r.ID,
		ServiceDescription: r.ServiceDescription,
		CountedBy:          r.CountedBy,
		DonorName:          r.DonorName,
		Amount:             r.Amount.Format(),
		Category:           string(r.Category),
		PaymentMethod:      string(r.PaymentMethod),
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (p recordPayload) toRecord() (core.Record, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.Record{}, err
	}
	category, err := core.ParseCategory(p.Category)
	if err != nil {
		return core.Record{}, err
	}
	method, err := core.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return core.Record{}, err
	}
	createdAt, err := parseDate(p.Date)
	if err != nil {
		return core.Record{}, err
	}
	return core.Record{
		ServiceDescription: p.ServiceDescription,
		CountedBy:          p.CountedBy,
		DonorName:          p.DonorName,
		Amount:             amount,
		Category:           category,
		PaymentMethod:      method,
		CreatedAt:          createdAt,
	}, nil
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.service.Store().ListRecords(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List records failed", "error", err)
			writeDomainError(w, err)
			return
		}
		out := make([]recordResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var payload recordPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := payload.toRecord()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.service.CreateRecord(r.Context(), rec)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusCreated, toRecordResponse(created))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/records/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := ledger.GetRecord(r.Context(), s.service.Store(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))

	case http.MethodPut:
		var payload recordPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := payload.toRecord()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec.ID = id
		if payload.Date == "" {
			existing, err := ledger.GetRecord(r.Context(), s.service.Store(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			rec.CreatedAt = existing.CreatedAt
		}
		updated, err := s.service.UpdateRecord(r.Context(), rec)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusOK, toRecordResponse(updated))

	case http.MethodDelete:
		if err := s.service.DeleteRecord(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

type expensePayload struct {
	ServiceDescription string `json:"service_description"`
	Amount             string `json:"amount"`
	Date               string `json:"date,omitempty"`
}

type expenseResponse struct {
	ID                 string `json:"id"`
	ServiceDescription string `json:"service_description"`
	Amount             string `json:"amount"`
	CreatedAt          string `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:                 e.ID,
		ServiceDescription: e.ServiceDescription,
		Amount:             e.Amount.Format(),
		CreatedAt:          e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (p expensePayload) toExpense() (core.Expense, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	createdAt, err := parseDate(p.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ServiceDescription: p.ServiceDescription,
		Amount:             amount,
		CreatedAt:          createdAt,
	}, nil
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.service.Store().ListExpenses(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
			writeDomainError(w, err)
			return
		}
		out := make([]expenseResponse, 0, len(expenses))
		for _, e := range expenses {
			out = append(out, toExpenseResponse(e))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var payload expensePayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := payload.toExpense()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.service.CreateExpense(r.Context(), e)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusCreated, toExpenseResponse(created))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/expenses/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := ledger.GetExpense(r.Context(), s.service.Store(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toExpenseResponse(e))

	case http.MethodPut:
		var payload expensePayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := payload.toExpense()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e.ID = id
		if payload.Date == "" {
			existing, err := ledger.GetExpense(r.Context(), s.service.Store(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			e.CreatedAt = existing.CreatedAt
		}
		updated, err := s.service.UpdateExpense(r.Context(), e)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusOK, toExpenseResponse(updated))

	case http.MethodDelete:
		if err := s.service.DeleteExpense(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

type foreignDonationPayload struct {
	DonorName     string `json:"donor_name"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description,omitempty"`
	Date          string `json:"date,omitempty"`
}

type foreignDonationResponse struct {
	ID            string `json:"id"`
	DonorName     string `json:"donor_name"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toForeignDonationResponse(d core.ForeignDonation) foreignDonationResponse {
	return foreignDonationResponse{
		ID:            d.ID,
		DonorName:     d.DonorName,
		Amount:        d.Amount.Format(),
		Currency:      string(d.Currency),
		PaymentMethod: string(d.PaymentMethod),
		Description:   d.Description,
		CreatedAt:     d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (p foreignDonationPayload) toForeignDonation() (core.ForeignDonation, error) {
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.ForeignDonation{}, err
	}
	currency, err := core.ParseCurrency(p.Currency)
	if err != nil {
		return core.ForeignDonation{}, err
	}
	method, err := core.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return core.ForeignDonation{}, err
	}
	createdAt, err := parseDate(p.Date)
	if err != nil {
		return core.ForeignDonation{}, err
	}
	return core.ForeignDonation{
		DonorName:     p.DonorName,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: method,
		Description:   p.Description,
		CreatedAt:     createdAt,
	}, nil
}

func (s *Server) handleForeignDonations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		donations, err := s.service.Store().ListForeignDonations(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List foreign donations failed", "error", err)
			writeDomainError(w, err)
			return
		}
		out := make([]foreignDonationResponse, 0, len(donations))
		for _, d := range donations {
			out = append(out, toForeignDonationResponse(d))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var payload foreignDonationPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		d, err := payload.toForeignDonation()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.service.CreateForeignDonation(r.Context(), d)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusCreated, toForeignDonationResponse(created))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleForeignDonationByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/foreign-donations/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing foreign donation id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		d, err := ledger.GetForeignDonation(r.Context(), s.service.Store(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toForeignDonationResponse(d))

	case http.MethodPut:
		var payload foreignDonationPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		d, err := payload.toForeignDonation()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		d.ID = id
		if payload.Date == "" {
			existing, err := ledger.GetForeignDonation(r.Context(), s.service.Store(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			d.CreatedAt = existing.CreatedAt
		}
		updated, err := s.service.UpdateForeignDonation(r.Context(), d)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		writeJSON(w, http.StatusOK, toForeignDonationResponse(updated))

	case http.MethodDelete:
		if err := s.service.DeleteForeignDonation(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		s.reportCache.Clear()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

type dashboardResponse struct {
	TotalDonations        string `json:"total_donations"`
	TotalExpenses         string `json:"total_expenses"`
	TotalForeignDonations string `json:"total_foreign_donations"`
	TotalBalance          string `json:"total_balance"`
	RecordCount           int    `json:"record_count"`
	ExpenseCount          int    `json:"expense_count"`
	ForeignDonationCount  int    `json:"foreign_donation_count"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	totals, snap, err := s.service.DashboardTotals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard totals failed", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalDonations:        totals.Donations.Format(),
		TotalExpenses:         totals.Expenses.Format(),
		TotalForeignDonations: totals.Foreign.Format(),
		TotalBalance:          totals.Balance.Format(),
		RecordCount:           len(snap.Records),
		ExpenseCount:          len(snap.Expenses),
		ForeignDonationCount:  len(snap.ForeignDonations),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	rng, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	compact := r.URL.Query().Get("compact") == "true"

	key := reportCacheKey(rng, compact)
	if doc, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, doc)
		return
	}

	doc, err := s.service.BuildReport(r.Context(), rng, report.Options{CompactDescriptions: compact})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.reportCache.Set(key, doc)
	writeJSON(w, http.StatusOK, doc)
}

type exportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Path string `json:"path,omitempty"`
}

type exportResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var payload exportRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rng, err := parseRange(payload.From, payload.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path := payload.Path
	if path == "" {
		path = report.DefaultFileName
	}
	if err := validateExportPath(path); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.RequestExport(r.Context(), rng, path); err != nil {
		slog.ErrorContext(r.Context(), "Export request failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "export queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, exportResponse{Status: "queued", Path: path})
}

// validateExportPath rejects paths the worker would refuse anyway:
// absolute ones and ones that climb out of the export directory.
func validateExportPath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("export path %q must be relative", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("export path %q escapes the export directory", path)
	}
	return nil
}

func parseRangeQuery(r *http.Request) (core.Range, error) {
	q := r.URL.Query()
	return parseRange(q.Get("from"), q.Get("to"))
}

func parseRange(from, to string) (core.Range, error) {
	fromT, err := parseDate(from)
	if err != nil {
		return core.Range{}, err
	}
	toT, err := parseDate(to)
	if err != nil {
		return core.Range{}, err
	}
	rng := core.Range{From: fromT, To: toT}
	if err := rng.Validate(); err != nil {
		return core.Range{}, err
	}
	return rng, nil
}

func reportCacheKey(rng core.Range, compact bool) string {
	key := rng.From.UTC().Format(dateInputLayout) + "|" + rng.To.UTC().Format(dateInputLayout)
	if compact {
		key += "|compact"
	}
	return key
}
