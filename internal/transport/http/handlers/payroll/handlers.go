package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"phpayroll/internal/auth"
	"phpayroll/internal/domain/payroll"
	"phpayroll/internal/requestctx"
	"phpayroll/internal/transport/http/api"
	"phpayroll/internal/transport/http/middleware"
	"phpayroll/internal/transport/http/shared"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	Service *payroll.Service
	Perms   middleware.PermissionStore
	// PreviewAuth puts the stateless calculate and export routes behind
	// payroll:preview. They are open when false.
	PreviewAuth bool
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		preview := r
		if h.PreviewAuth {
			preview = r.With(middleware.RequirePermission(auth.PermPayrollPreview, h.Perms))
		}
		preview.Post("/lines/calculate", h.handleCalculateLine)
		preview.Post("/runs/calculate", h.handleCalculateRun)
		preview.Post("/runs/export", h.handleExportPreview)

		r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/runs", h.handleApproveRun)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequirePermission(auth.PermPayrollExport, h.Perms)).Get("/runs/{runID}/register", h.handleExportRun)
		r.With(middleware.RequirePermission(auth.PermPayrollExport, h.Perms)).Get("/runs/{runID}/lines/{employeeID}/payslip", h.handlePayslip)
	})
}

// hoursRequest accepts either the explicit four-way split or a single
// totalHours figure that is split at regularHoursCap.
type hoursRequest struct {
	payroll.Hours
	TotalHours      *decimal.Decimal `json:"totalHours,omitempty"`
	RegularHoursCap *decimal.Decimal `json:"regularHoursCap,omitempty"`
}

type lineRequest struct {
	Employee             payroll.Profile   `json:"employee"`
	Hours                hoursRequest      `json:"hours"`
	HolidayPayMultiplier *decimal.Decimal  `json:"holidayPayMultiplier,omitempty"`
	Overrides            payroll.Overrides `json:"overrides"`
}

type runRequest struct {
	Period           payroll.Period `json:"period"`
	Currency         string         `json:"currency,omitempty"`
	HolidayDoublePay bool           `json:"holidayDoublePayEnabled"`
	Lines            []lineRequest  `json:"lines"`
}

func (l lineRequest) toInput(v *shared.Validator, prefix string) payroll.LineInput {
	hours := l.Hours.Hours
	if l.Hours.TotalHours != nil {
		if !hours.Regular.IsZero() || !hours.Overtime.IsZero() {
			v.Add(prefix+"hours.totalHours", "must not be combined with regularHours or overtimeHours")
		}
		limit := decimal.NewFromInt(payroll.DefaultRegularHoursCap)
		if l.Hours.RegularHoursCap != nil {
			if !l.Hours.RegularHoursCap.IsPositive() {
				v.Add(prefix+"hours.regularHoursCap", "must be greater than zero")
			}
			limit = *l.Hours.RegularHoursCap
		}
		hours.Regular, hours.Overtime = payroll.SplitHours(*l.Hours.TotalHours, limit)
	} else if l.Hours.RegularHoursCap != nil {
		v.Add(prefix+"hours.regularHoursCap", "requires totalHours")
	}
	return payroll.LineInput{
		Profile:              l.Employee,
		Hours:                hours,
		HolidayPayMultiplier: l.HolidayPayMultiplier,
		Overrides:            l.Overrides,
	}
}

func (req runRequest) toInput(v *shared.Validator) payroll.RunInput {
	lines := make([]payroll.LineInput, 0, len(req.Lines))
	for i, line := range req.Lines {
		lines = append(lines, line.toInput(v, fmt.Sprintf("lines[%d].", i)))
	}
	return payroll.RunInput{
		Period:           req.Period,
		Currency:         strings.ToUpper(strings.TrimSpace(req.Currency)),
		HolidayDoublePay: req.HolidayDoublePay,
		Lines:            lines,
	}
}

func (h *Handler) handleCalculateLine(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var req lineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := shared.NewValidator()
	input := req.toInput(v, "")
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Service.PreviewLine(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleCalculateRun(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeRun(w, r)
	if !ok {
		return
	}
	result, err := h.Service.PreviewRun(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPreview(w http.ResponseWriter, r *http.Request) {
	format, ok := parseFormat(w, r)
	if !ok {
		return
	}
	input, ok := decodeRun(w, r)
	if !ok {
		return
	}
	result, err := h.Service.PreviewRun(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := "register-" + safeFilename(result.Period.Start) + "-" + safeFilename(result.Period.End)
	h.writeRegister(w, r, result, format, name)
}

func (h *Handler) handleApproveRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	input, ok := decodeRun(w, r)
	if !ok {
		return
	}
	stored, err := h.Service.ApproveRun(r.Context(), user.TenantID, user.UserID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, stored, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	v := shared.NewValidator()
	page := shared.ParsePagination(r, v, 20, 100)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	runs, total, err := h.Service.ListRuns(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []payroll.RunSummary{}
	}
	api.Success(w, api.Page{Items: runs, Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	run, err := h.Service.GetRun(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRun(w http.ResponseWriter, r *http.Request) {
	format, ok := parseFormat(w, r)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	run, err := h.Service.GetRun(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeRegister(w, r, run.RunResult, format, "register-"+safeFilename(run.ID))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	runID := chi.URLParam(r, "runID")
	employeeID := chi.URLParam(r, "employeeID")

	run, line, err := h.Service.GetLine(r.Context(), user.TenantID, runID, employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := payroll.PayslipPDF(run.Period, run.Currency, line)
	if err != nil {
		writeError(w, r, fmt.Errorf("render payslip: %w", err))
		return
	}
	api.Attachment(w, contentTypePDF, "payslip-"+safeFilename(run.ID)+"-"+safeFilename(employeeID)+".pdf", data)
}

func (h *Handler) writeRegister(w http.ResponseWriter, r *http.Request, result payroll.RunResult, format, name string) {
	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case formatXLSX:
		data, err = payroll.RegisterXLSX(result)
		contentType = contentTypeXLSX
	default:
		data, err = payroll.RegisterCSV(result)
		contentType = contentTypeCSV
	}
	if err != nil {
		writeError(w, r, fmt.Errorf("render register: %w", err))
		return
	}
	api.Attachment(w, contentType, name+"."+format, data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	reqID := middleware.GetRequestID(r.Context())
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", reqID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload: "+err.Error(), reqID)
		return false
	}
	return true
}

func decodeRun(w http.ResponseWriter, r *http.Request) (payroll.RunInput, bool) {
	var req runRequest
	if !decodeJSON(w, r, &req) {
		return payroll.RunInput{}, false
	}
	v := shared.NewValidator()
	input := req.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return payroll.RunInput{}, false
	}
	return input, true
}

func parseFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = formatCSV
	}
	v := shared.NewValidator()
	v.Enum("format", format, []string{formatCSV, formatXLSX}, "must be csv or xlsx")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return "", false
	}
	return format, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]shared.ValidationIssue, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, reqID, shared.SortIssues(issues))
	case errors.Is(err, payroll.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll run not found", reqID)
	case errors.Is(err, payroll.ErrLineNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee is not part of this run", reqID)
	case errors.Is(err, payroll.ErrArchiveDisabled):
		api.Fail(w, http.StatusServiceUnavailable, "archive_disabled", "payroll run archive is not configured", reqID)
	default:
		requestctx.Logger(r.Context()).Error("payroll request failed", zap.String("path", r.URL.Path), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
	}
}

func safeFilename(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "run"
	}
	return b.String()
}
