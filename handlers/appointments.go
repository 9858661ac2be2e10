package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	"mentorline/middleware"
	"mentorline/models"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
)

func (h *HandlerBundle) updateAppointment(appt *models.Appointment) error {
	return h.Appointments.Update(appt)
}

func statusesFromQuery(c *gin.Context) []models.AppointmentStatus {
	var statuses []models.AppointmentStatus
	for _, s := range c.QueryArray("status") {
		statuses = append(statuses, models.AppointmentStatus(s))
	}
	return statuses
}

// withMentorProfiles attaches mentor names to appointments for display.
func (h *HandlerBundle) withMentorProfiles(appts []models.Appointment) []models.AppointmentView {
	views := make([]models.AppointmentView, 0, len(appts))
	cache := make(map[string]*models.Mentor)
	for _, a := range appts {
		view := models.AppointmentView{Appointment: a}
		if a.MentorID != "" {
			mentor, seen := cache[a.MentorID]
			if !seen {
				mentor, _ = h.Mentors.GetByID(a.MentorID)
				cache[a.MentorID] = mentor
			}
			if mentor != nil {
				view.MentorName = mentor.Name
				view.MentorSpecialty = mentor.Specialty
			}
		}
		views = append(views, view)
	}
	return views
}

// MyAppointments returns the authenticated caller's appointments.
func (h *HandlerBundle) MyAppointments(c *gin.Context) {
	statuses := statusesFromQuery(c)
	if len(statuses) == 0 {
		statuses = models.ActiveStatuses
	}
	appts, err := h.Ledger.ListForCaller(middleware.Subject(c), statuses)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": h.withMentorProfiles(appts)})
}

// MentorAppointments returns the authenticated mentor's appointments.
func (h *HandlerBundle) MentorAppointments(c *gin.Context) {
	appts, err := h.Ledger.ListForMentor(middleware.Subject(c), statusesFromQuery(c), c.Query("from"), c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ListAppointments returns appointments matching admin filters.
func (h *HandlerBundle) ListAppointments(c *gin.Context) {
	filter := appointmentRepo.Filter{
		Statuses:  statusesFromQuery(c),
		MentorID:  c.Query("mentorId"),
		StartDate: c.Query("from"),
		EndDate:   c.Query("to"),
	}
	appts, err := h.Appointments.ListAll(filter)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": h.withMentorProfiles(appts)})
}

// CalendarDay is one day of a mentor's calendar: the appointments held on
// that date alongside the open windows.
type CalendarDay struct {
	Appointments []models.AppointmentView    `json:"appointments"`
	Availability []models.AvailabilityWindow `json:"availability"`
}

func calendarMonth(yearStr, monthStr string) (int, time.Month, error) {
	if yearStr == "" && monthStr == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", monthStr)
	}
	return year, time.Month(month), nil
}

// MentorCalendar returns one month of a mentor's schedule grouped by date.
// Defaults to the current month. Mentors may only view their own calendar.
func (h *HandlerBundle) MentorCalendar(c *gin.Context) {
	mentorID := c.Param("id")
	if middleware.Role(c) == "mentor" {
		mentorID = middleware.Subject(c)
	}

	year, month, err := calendarMonth(c.Query("year"), c.Query("month"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, -1).Format("2006-01-02")

	appts, err := h.Ledger.ListForMentor(mentorID, nil, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load calendar", err.Error())
		return
	}
	windows, err := h.Availability.WindowsFor(mentorID, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load calendar", err.Error())
		return
	}

	days := make(map[string]*CalendarDay)
	dayFor := func(date string) *CalendarDay {
		day, ok := days[date]
		if !ok {
			day = &CalendarDay{}
			days[date] = day
		}
		return day
	}
	for _, view := range h.withMentorProfiles(appts) {
		day := dayFor(view.Date)
		day.Appointments = append(day.Appointments, view)
	}
	for _, w := range windows {
		day := dayFor(w.Date)
		day.Availability = append(day.Availability, w)
	}

	c.JSON(http.StatusOK, gin.H{
		"mentorId": mentorID,
		"year":     year,
		"month":    int(month),
		"days":     days,
	})
}

// GetAppointment returns one appointment by ID.
func (h *HandlerBundle) GetAppointment(c *gin.Context) {
	appt, err := h.Ledger.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}
	if appt == nil {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

type mentorNotesRequest struct {
	MentorNotes string `json:"mentorNotes" binding:"required"`
}

// AddMentorNotes lets the appointment's mentor attach private notes.
func (h *HandlerBundle) AddMentorNotes(c *gin.Context) {
	appt, err := h.Ledger.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}
	if appt == nil || appt.MentorID != middleware.Subject(c) {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}

	var req mentorNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	appt.MentorNotes = req.MentorNotes
	if err := h.updateAppointment(appt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// CompleteAppointment marks a booked appointment as held. Mentor and admin only.
func (h *HandlerBundle) CompleteAppointment(c *gin.Context) {
	appt, err := h.Ledger.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}
	if appt == nil {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}
	if middleware.Role(c) == "mentor" && appt.MentorID != middleware.Subject(c) {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}
	if !appt.Complete() {
		utils.JSONError(c, http.StatusConflict, "Cannot complete appointment", "Only booked appointments can be completed")
		return
	}
	if err := h.updateAppointment(appt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// CancelAppointment cancels an appointment. Callers may only cancel their own.
func (h *HandlerBundle) CancelAppointment(c *gin.Context) {
	appt, err := h.Ledger.GetByID(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch appointment", err.Error())
		return
	}
	if appt == nil {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}
	if middleware.Role(c) == "caller" && appt.CallerIdentity != middleware.Subject(c) {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", "")
		return
	}

	cancelled, err := h.Ledger.Cancel(appt.ID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}
