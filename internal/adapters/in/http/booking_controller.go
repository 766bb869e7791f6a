package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/config"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/domain"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/json_types"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/ports/in"
	"github.com/suchimauz/blood4life-appointment-scheduler/internal/core/services"
)

type BookingController struct {
	booking       in.BookingUseCase
	eligibility   in.EligibilityUseCase
	calendar      in.CalendarUseCase
	dashboard     in.DashboardUseCase
	notifications in.NotificationUseCase
	cfg           *config.Config
}

func NewBookingController(
	booking in.BookingUseCase,
	eligibility in.EligibilityUseCase,
	calendar in.CalendarUseCase,
	dashboard in.DashboardUseCase,
	notifications in.NotificationUseCase,
	cfg *config.Config,
) *BookingController {
	return &BookingController{
		booking:       booking,
		eligibility:   eligibility,
		calendar:      calendar,
		dashboard:     dashboard,
		notifications: notifications,
		cfg:           cfg,
	}
}

func (c *BookingController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/donors/:donorId/eligibility", c.checkEligibility)
		api.GET("/donors/:donorId/appointments", c.listDonorAppointments)
		api.DELETE("/appointments/:appointmentId", c.deleteAppointment)

		api.POST("/booking/flows", c.startFlow)
		api.GET("/booking/flows/:flowId", c.getFlow)
		api.POST("/booking/flows/:flowId/hospital", c.selectHospital)
		api.POST("/booking/flows/:flowId/date", c.selectDate)
		api.POST("/booking/flows/:flowId/time", c.selectTime)
		api.POST("/booking/flows/:flowId/submit", c.submitFlow)
		api.DELETE("/booking/flows/:flowId", c.closeFlow)
		api.GET("/booking/flows/:flowId/calendar/:year/:month", c.bookingMonth)

		api.GET("/hospitals", c.listHospitals)
		api.GET("/calendar/:year/:month", c.campaignMonth)

		api.GET("/appointments", c.allAppointments)
		api.GET("/hospitals/:hospitalId/appointments/today", c.todayHospitalAppointments)

		api.GET("/notifications", c.listNotifications)
		api.GET("/notifications/unread/count", c.unreadCount)
		api.PUT("/notifications/:notificationId/read", c.markNotificationRead)
		api.PUT("/notifications/read-all", c.markAllNotificationsRead)
	}
}

type StartFlowRequest struct {
	DonorID int64 `json:"donorId" binding:"required"`
}

type SelectHospitalRequest struct {
	HospitalID int64 `json:"hospitalId" binding:"required"`
}

type SelectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type SelectTimeRequest struct {
	Hour string `json:"hour" binding:"required"`
}

// statusForError переводит доменные ошибки в коды ответа.
// Ошибки сети и бэкенда остаются пятисотыми
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrFlowClosed),
		errors.Is(err, services.ErrHospitalNotSelected),
		errors.Is(err, services.ErrNoCampaign),
		errors.Is(err, services.ErrDateNotSelectable),
		errors.Is(err, services.ErrInvalidTimeSlot),
		errors.Is(err, services.ErrIncompleteSelection),
		errors.Is(err, services.ErrDeleteNotConfirmed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseID(ctx *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " format"})
		return 0, false
	}
	return id, true
}

func parseFlowID(ctx *gin.Context) (uuid.UUID, bool) {
	flowID, err := uuid.Parse(ctx.Param("flowId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flow ID format"})
		return uuid.Nil, false
	}
	return flowID, true
}

func parseYearMonth(ctx *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year format"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(ctx.Param("month"))
	if err != nil || month < 1 || month > 12 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format"})
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (c *BookingController) checkEligibility(ctx *gin.Context) {
	donorID, ok := parseID(ctx, "donorId")
	if !ok {
		return
	}

	eligibility, err := c.eligibility.CheckEligibility(ctx.Request.Context(), donorID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, eligibility)
}

func (c *BookingController) listDonorAppointments(ctx *gin.Context) {
	donorID, ok := parseID(ctx, "donorId")
	if !ok {
		return
	}

	appointments, err := c.booking.ListDonorAppointments(ctx.Request.Context(), donorID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Пустой список — не ошибка, отдаём явный пустой массив
	if appointments == nil {
		appointments = []domain.Appointment{}
	}

	ctx.JSON(http.StatusOK, appointments)
}

func (c *BookingController) deleteAppointment(ctx *gin.Context) {
	appointmentID, ok := parseID(ctx, "appointmentId")
	if !ok {
		return
	}

	donorID, err := strconv.ParseInt(ctx.Query("donorId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donorId format"})
		return
	}

	confirmed := ctx.Query("confirm") == "true"

	if err := c.booking.DeleteAppointment(ctx.Request.Context(), donorID, appointmentID, confirmed); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *BookingController) startFlow(ctx *gin.Context) {
	var req StartFlowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := c.booking.StartFlow(ctx.Request.Context(), req.DonorID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) getFlow(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.booking.GetFlow(ctx.Request.Context(), flowID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) selectHospital(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	var req SelectHospitalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := c.booking.SelectHospital(ctx.Request.Context(), flowID, req.HospitalID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) selectDate(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	var req SelectDateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	date := json_types.NewDate(parsed.Year(), parsed.Month(), parsed.Day())

	snapshot, err := c.booking.SelectDate(ctx.Request.Context(), flowID, date)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) selectTime(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	var req SelectTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	parsed, err := time.Parse("15:04", req.Hour)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hour format"})
		return
	}
	hour := json_types.HourMinute{Time: parsed}

	snapshot, err := c.booking.SelectTime(ctx.Request.Context(), flowID, hour)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) submitFlow(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.booking.Submit(ctx.Request.Context(), flowID)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

func (c *BookingController) closeFlow(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	if err := c.booking.CloseFlow(ctx.Request.Context(), flowID); err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *BookingController) bookingMonth(ctx *gin.Context) {
	flowID, ok := parseFlowID(ctx)
	if !ok {
		return
	}

	year, month, ok := parseYearMonth(ctx)
	if !ok {
		return
	}

	grid, err := c.calendar.BookingMonth(ctx.Request.Context(), flowID, year, month)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, grid)
}

func (c *BookingController) listHospitals(ctx *gin.Context) {
	hospitals, err := c.booking.ListHospitals(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if hospitals == nil {
		hospitals = []domain.Hospital{}
	}

	ctx.JSON(http.StatusOK, hospitals)
}

func (c *BookingController) campaignMonth(ctx *gin.Context) {
	year, month, ok := parseYearMonth(ctx)
	if !ok {
		return
	}

	grid, err := c.calendar.CampaignMonth(ctx.Request.Context(), year, month)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, grid)
}

func (c *BookingController) allAppointments(ctx *gin.Context) {
	appointments, err := c.dashboard.AllAppointments(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if appointments == nil {
		appointments = []domain.Appointment{}
	}

	ctx.JSON(http.StatusOK, appointments)
}

func (c *BookingController) todayHospitalAppointments(ctx *gin.Context) {
	hospitalID, ok := parseID(ctx, "hospitalId")
	if !ok {
		return
	}

	appointments, err := c.dashboard.TodayHospitalAppointments(ctx.Request.Context(), hospitalID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if appointments == nil {
		appointments = []domain.AppointmentWithDonor{}
	}

	ctx.JSON(http.StatusOK, appointments)
}

func (c *BookingController) listNotifications(ctx *gin.Context) {
	notifications, err := c.notifications.List(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}

	ctx.JSON(http.StatusOK, notifications)
}

func (c *BookingController) unreadCount(ctx *gin.Context) {
	count, err := c.notifications.UnreadCount(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func (c *BookingController) markNotificationRead(ctx *gin.Context) {
	notificationID, ok := parseID(ctx, "notificationId")
	if !ok {
		return
	}

	if err := c.notifications.MarkAsRead(ctx.Request.Context(), notificationID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *BookingController) markAllNotificationsRead(ctx *gin.Context) {
	if err := c.notifications.MarkAllAsRead(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *BookingController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
