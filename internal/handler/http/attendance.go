package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const liveKeepaliveInterval = 30 * time.Second

type AttendanceHandler interface {
	// Caller's own attendance
	Clock(w http.ResponseWriter, r *http.Request)
	MyDay(w http.ResponseWriter, r *http.Request)
	MyStatus(w http.ResponseWriter, r *http.Request)
	MyDTR(w http.ResponseWriter, r *http.Request)
	MyDTRExport(w http.ResponseWriter, r *http.Request)

	// Manager views of an employee
	EmployeeDay(w http.ResponseWriter, r *http.Request)
	EmployeeStatus(w http.ResponseWriter, r *http.Request)
	EmployeeDTR(w http.ResponseWriter, r *http.Request)
	EmployeeDTRExport(w http.ResponseWriter, r *http.Request)

	// Live stream
	GetLiveToken(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
	jwtService        jwt.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
		jwtService:        jwtService,
	}
}

// callerEmployeeID returns the employee bound to the access token, writing the
// error response when there is none.
func callerEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal, err := jwt.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return principal.EmployeeID, true
}

// parseMonthYear reads month and year query parameters. Missing values are
// left at zero and rejected by request validation.
func parseMonthYear(w http.ResponseWriter, r *http.Request) (month int, year int, ok bool) {
	var err error
	if s := r.URL.Query().Get("month"); s != "" {
		if month, err = strconv.Atoi(s); err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return 0, 0, false
		}
	}
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return 0, 0, false
		}
	}
	return month, year, true
}

// Clock handles POST /attendance/clock
func (h *attendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	var req attendance.ClockActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode clock action", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.attendanceService.ClockAction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock action recorded", result)
}

// MyDay handles GET /attendance/my/day
func (h *attendanceHandlerImpl) MyDay(w http.ResponseWriter, r *http.Request) {
	if employeeID, ok := callerEmployeeID(w, r); ok {
		h.day(w, r, employeeID)
	}
}

// MyStatus handles GET /attendance/my/status
func (h *attendanceHandlerImpl) MyStatus(w http.ResponseWriter, r *http.Request) {
	if employeeID, ok := callerEmployeeID(w, r); ok {
		h.status(w, r, employeeID)
	}
}

// MyDTR handles GET /attendance/my/dtr
func (h *attendanceHandlerImpl) MyDTR(w http.ResponseWriter, r *http.Request) {
	if employeeID, ok := callerEmployeeID(w, r); ok {
		h.dtr(w, r, employeeID)
	}
}

// MyDTRExport handles GET /attendance/my/dtr/export
func (h *attendanceHandlerImpl) MyDTRExport(w http.ResponseWriter, r *http.Request) {
	if employeeID, ok := callerEmployeeID(w, r); ok {
		h.dtrExport(w, r, employeeID)
	}
}

// EmployeeDay handles GET /attendance/employees/{employeeID}/day
func (h *attendanceHandlerImpl) EmployeeDay(w http.ResponseWriter, r *http.Request) {
	h.day(w, r, chi.URLParam(r, "employeeID"))
}

// EmployeeStatus handles GET /attendance/employees/{employeeID}/status
func (h *attendanceHandlerImpl) EmployeeStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, chi.URLParam(r, "employeeID"))
}

// EmployeeDTR handles GET /attendance/employees/{employeeID}/dtr
func (h *attendanceHandlerImpl) EmployeeDTR(w http.ResponseWriter, r *http.Request) {
	h.dtr(w, r, chi.URLParam(r, "employeeID"))
}

// EmployeeDTRExport handles GET /attendance/employees/{employeeID}/dtr/export
func (h *attendanceHandlerImpl) EmployeeDTRExport(w http.ResponseWriter, r *http.Request) {
	h.dtrExport(w, r, chi.URLParam(r, "employeeID"))
}

func (h *attendanceHandlerImpl) day(w http.ResponseWriter, r *http.Request, employeeID string) {
	result, err := h.attendanceService.ComputeDay(r.Context(), employeeID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *attendanceHandlerImpl) status(w http.ResponseWriter, r *http.Request, employeeID string) {
	result, err := h.attendanceService.SessionStatus(r.Context(), employeeID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *attendanceHandlerImpl) dtr(w http.ResponseWriter, r *http.Request, employeeID string) {
	month, year, ok := parseMonthYear(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ComputeMonth(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *attendanceHandlerImpl) dtrExport(w http.ResponseWriter, r *http.Request, employeeID string) {
	month, year, ok := parseMonthYear(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.GenerateDTR(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		slog.Error("Failed to write DTR export", "employee_id", employeeID, "error", err)
	}
}

// GetLiveToken generates a short-lived token for the live stream
func (h *attendanceHandlerImpl) GetLiveToken(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := callerEmployeeID(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(employeeID)
	if err != nil {
		slog.Error("Failed to generate live token", "employee_id", employeeID, "error", err)
		response.InternalServerError(w, "Failed to generate live token")
		return
	}

	response.Success(w, attendance.LiveTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Live streams the caller's current day over SSE
func (h *attendanceHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	// Token comes from the query string, EventSource cannot set headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	employeeID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Subscribe before the snapshot so no update falls between them.
	events, cleanup := h.attendanceService.Subscribe(r.Context(), employeeID)
	defer cleanup()

	current, err := h.attendanceService.ComputeDay(r.Context(), employeeID, "")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	writeEvent(w, "connected", current)
	flusher.Flush()

	keepalive := time.NewTicker(liveKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode live event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
