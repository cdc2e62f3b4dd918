package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hungtabe/ezevent-api/internal/api/handler/v1/request"
	"github.com/hungtabe/ezevent-api/internal/api/handler/v1/response"
	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, creator domain.User) (domain.Event, error)
	SetStatus(ctx context.Context, eventID uint, status string) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID uint, caller domain.User) error
	GetEvent(ctx context.Context, eventID uint) (domain.Event, error)
	GetEventByQRCode(ctx context.Context, qrCode string) (domain.Event, error)
	ListPublicEvents(ctx context.Context) ([]domain.Event, error)
	ListAllEvents(ctx context.Context) ([]domain.Event, error)
	ListMyEvents(ctx context.Context, userID uint) ([]domain.Event, error)
	ListAvailableEvents(ctx context.Context) ([]domain.Event, error)
	GrantEventRole(ctx context.Context, role domain.EventRole) (domain.EventRole, error)
	ListEventRoles(ctx context.Context, eventID uint) ([]domain.EventRole, error)
}

// EventRegistrationService is the slice of the registration service the event
// handler needs to mark which available events the caller already joined.
type EventRegistrationService interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type EventHandler struct {
	svc    EventService
	regSvc EventRegistrationService
	uSvc   UserService
}

func NewEventHandler(svc EventService, regSvc EventRegistrationService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:    svc,
		regSvc: regSvc,
		uSvc:   uSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Organizers and admins only. Organizer/admin events are approved immediately.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  response.EventResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.CanCreateEvents() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot create events", user.ID)))
		return
	}

	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:        input.Name,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		ImageURL:    input.ImageURL,
	}, user)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.EventResponse{Event: event})
}

// HandleApproveEvent godoc
// @Summary      Approve or reject a pending event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.ApproveEventRequest  true  "Decision"
// @Success      200    {object}  response.EventResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /events/approve [post]
// @Security BearerAuth
func (h *EventHandler) HandleApproveEvent(ctx *gin.Context) {
	var input request.ApproveEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.SetStatus(ctx.Request.Context(), input.EventID, input.Status)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", input.EventID))
			return
		}

		err = fmt.Errorf("v1.HandleApproveEvent -> h.svc.SetStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Admins may delete any event, organizers only their own.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.DeleteEventRequest  true  "Event ID"
// @Success      200    {object}  map[string]string
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /events/delete [post]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.DeleteEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), input.ID, user); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", input.ID))
			return
		}
		if errors.Is(err, service.ErrNotEventOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOwner))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// HandleListEvents godoc
// @Summary      List approved events
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListPublicEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListPublicEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{Events: events, Total: len(events)})
}

// HandleListAllEvents godoc
// @Summary      List all events with registration counts
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      403  {object}  response.Err
// @Router       /admin/events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListAllEvents(ctx *gin.Context) {
	events, err := h.svc.ListAllEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllEvents -> h.svc.ListAllEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{Events: events, Total: len(events)})
}

// HandleListMyEvents godoc
// @Summary      List the caller's own events
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.EventsResponse
// @Failure      401  {object}  response.Err
// @Router       /events/mine [get]
// @Security BearerAuth
func (h *EventHandler) HandleListMyEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListMyEvents(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyEvents -> h.svc.ListMyEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{Events: events, Total: len(events)})
}

// HandleListAvailableEvents godoc
// @Summary      List approved events that have not ended, with the caller's registration state
// @Tags         events
// @Produce      json
// @Success      200  {object}  response.AvailableEventsResponse
// @Failure      401  {object}  response.Err
// @Router       /events/available [get]
// @Security BearerAuth
func (h *EventHandler) HandleListAvailableEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListAvailableEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListAvailableEvents -> h.svc.ListAvailableEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	registrations, err := h.regSvc.ListByUser(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListAvailableEvents -> h.regSvc.ListByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	registered := make(map[uint]uint, len(registrations))
	for _, reg := range registrations {
		registered[reg.EventID] = reg.ID
	}

	available := make([]response.AvailableEvent, 0, len(events))
	for _, event := range events {
		regID, ok := registered[event.ID]
		available = append(available, response.AvailableEvent{
			Event:          event,
			IsRegistered:   ok,
			RegistrationID: regID,
		})
	}

	ctx.JSON(http.StatusOK, response.AvailableEventsResponse{Events: available, Total: len(available)})
}

// HandleGetEventDetail godoc
// @Summary      Get a single event
// @Tags         events
// @Produce      json
// @Param        id   query     int  true  "Event ID"
// @Success      200  {object}  response.EventResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/detail [get]
func (h *EventHandler) HandleGetEventDetail(ctx *gin.Context) {
	eventID, err := parseUintQuery(ctx, "id")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEventDetail -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleGetEventByQR godoc
// @Summary      Resolve an event scan token
// @Description  Preflight of registration-by-scan. Only approved events resolve.
// @Tags         events
// @Produce      json
// @Param        qr   query     string  true  "Event QR token"
// @Success      200  {object}  response.EventResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /events/qr [get]
func (h *EventHandler) HandleGetEventByQR(ctx *gin.Context) {
	qrCode := ctx.Query("qr")
	if qrCode == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing query parameter \"qr\"")))
		return
	}

	event, err := h.svc.GetEventByQRCode(ctx.Request.Context(), qrCode)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "qr", qrCode))
			return
		}

		err = fmt.Errorf("v1.HandleGetEventByQR -> h.svc.GetEventByQRCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if event.Status != domain.EventStatusApproved {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event is not approved")))
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleGrantEventRole godoc
// @Summary      Grant a per-event role to a user
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.GrantEventRoleRequest  true  "Grant"
// @Success      201    {object}  domain.EventRole
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /events/roles [post]
// @Security BearerAuth
func (h *EventHandler) HandleGrantEventRole(ctx *gin.Context) {
	var input request.GrantEventRoleRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.GrantEventRole(ctx.Request.Context(), domain.EventRole{
		EventID: input.EventID,
		UserID:  input.UserID,
		Role:    input.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", input.EventID))
			return
		}

		err = fmt.Errorf("v1.HandleGrantEventRole -> h.svc.GrantEventRole -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, role)
}

// HandleListEventRoles godoc
// @Summary      List per-event role grants
// @Tags         events
// @Produce      json
// @Param        eventId  query     int  true  "Event ID"
// @Success      200      {object}  response.EventRolesResponse
// @Failure      400      {object}  response.Err
// @Router       /events/roles [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEventRoles(ctx *gin.Context) {
	eventID, err := parseUintQuery(ctx, "eventId")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	roles, err := h.svc.ListEventRoles(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEventRoles -> h.svc.ListEventRoles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventRolesResponse{Roles: roles})
}
