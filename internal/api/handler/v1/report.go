package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hungtabe/ezevent-api/internal/api/handler/v1/response"
	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/service"
)

type ReportService interface {
	EventReport(ctx context.Context, eventID uint) (domain.EventReport, error)
	AggregateReport(ctx context.Context, caller domain.User) (domain.AggregateReport, error)
	OrganizerStats(ctx context.Context, organizerID uint) (domain.OrganizerStats, error)
}

// ReportEventService resolves events for per-event report access checks.
type ReportEventService interface {
	GetEvent(ctx context.Context, eventID uint) (domain.Event, error)
}

type ReportHandler struct {
	svc      ReportService
	eventSvc ReportEventService
	uSvc     UserService
}

func NewReportHandler(svc ReportService, eventSvc ReportEventService, uSvc UserService) *ReportHandler {
	return &ReportHandler{
		svc:      svc,
		eventSvc: eventSvc,
		uSvc:     uSvc,
	}
}

// HandleEventReport godoc
// @Summary      Attendance report for one event
// @Description  Admins may report on any event, organizers only on their own.
// @Tags         reports
// @Produce      json
// @Param        eventId  query     int  true  "Event ID"
// @Success      200      {object}  domain.EventReport
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/report [get]
// @Security BearerAuth
func (h *ReportHandler) HandleEventReport(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := parseUintQuery(ctx, "eventId")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.eventSvc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleEventReport -> h.eventSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !user.CanManageEvent(event) {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot view reports for this event")))
		return
	}

	report, err := h.svc.EventReport(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleEventReport -> h.svc.EventReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleAggregateReport godoc
// @Summary      Attendance summary across visible events
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.AggregateReport
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /reports/summary [get]
// @Security BearerAuth
func (h *ReportHandler) HandleAggregateReport(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.CanCreateEvents() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("reports are for organizers and admins")))
		return
	}

	report, err := h.svc.AggregateReport(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleAggregateReport -> h.svc.AggregateReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleOrganizerStats godoc
// @Summary      Organizer dashboard figures
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.OrganizerStats
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizer/stats [get]
// @Security BearerAuth
func (h *ReportHandler) HandleOrganizerStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.CanCreateEvents() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("stats are for organizers and admins")))
		return
	}

	stats, err := h.svc.OrganizerStats(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleOrganizerStats -> h.svc.OrganizerStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
