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
	"github.com/hungtabe/ezevent-api/internal/pkg/qrimage"
	"github.com/hungtabe/ezevent-api/internal/service"
)

type RegistrationService interface {
	Register(ctx context.Context, userID, eventID uint) (domain.Registration, error)
	RegisterByQR(ctx context.Context, caller domain.User, eventQRCode string) (domain.Registration, error)
	CheckIn(ctx context.Context, qrCode string, eventID uint) (domain.Registration, error)
	ListByEvent(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]domain.Registration, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
}

// RegistrationEventService is the slice of the event service used for
// ownership checks on attendee listings.
type RegistrationEventService interface {
	GetEvent(ctx context.Context, eventID uint) (domain.Event, error)
}

type RegistrationHandler struct {
	svc      RegistrationService
	eventSvc RegistrationEventService
	uSvc     UserService
}

func NewRegistrationHandler(svc RegistrationService, eventSvc RegistrationEventService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:      svc,
		eventSvc: eventSvc,
		uSvc:     uSvc,
	}
}

func renderRegistered(ctx *gin.Context, registration domain.Registration) {
	image, err := qrimage.DataURL(registration.QRCode)
	if err != nil {
		err = fmt.Errorf("qrimage.DataURL -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.RegisterResponse{
		Registration: registration,
		QRCodeImage:  image,
		QRCodeData:   registration.QRCode,
	})
}

// HandleRegister godoc
// @Summary      Register a user for an event
// @Description  Registers the caller. Admins may register another user by setting user_id.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.RegisterRequest  true  "Registration"
// @Success      201    {object}  response.RegisterResponse
// @Failure      400    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Router       /events/register [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RegisterRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	targetID := user.ID
	if input.UserID != 0 && input.UserID != user.ID {
		if user.Role != domain.RoleAdmin {
			response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot register another user")))
			return
		}
		targetID = input.UserID
	}

	registration, err := h.svc.Register(ctx.Request.Context(), targetID, input.EventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyRegistered))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", input.EventID))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	renderRegistered(ctx, registration)
}

// HandleRegisterByQR godoc
// @Summary      Register by scanning an event QR code
// @Description  Students only. The scanned token must belong to an approved event.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.RegisterByQRRequest  true  "Scanned token"
// @Success      201    {object}  response.RegisterResponse
// @Failure      400    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Router       /events/qr/register [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRegisterByQR(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RegisterByQRRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.RegisterByQR(ctx.Request.Context(), user, input.QRCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotStudent):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotStudent))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "qr", input.QRCode))
		case errors.Is(err, service.ErrEventNotApproved):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEventNotApproved))
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyRegistered))
		default:
			err = fmt.Errorf("v1.HandleRegisterByQR -> h.svc.RegisterByQR -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	renderRegistered(ctx, registration)
}

// HandleCheckIn godoc
// @Summary      Check in an attendee by registration QR code
// @Description  Marks the registration attended exactly once. A second scan returns 409.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        input  body      request.CheckInRequest  true  "Scanned token"
// @Success      200    {object}  response.CheckInResponse
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Router       /events/checkin [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleCheckIn(ctx *gin.Context) {
	var input request.CheckInRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, err := h.svc.CheckIn(ctx.Request.Context(), input.QRCode, input.EventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "qr", input.QRCode))
		case errors.Is(err, service.ErrWrongEvent):
			response.RenderErr(ctx, response.ErrConflict(service.ErrWrongEvent))
		case errors.Is(err, service.ErrAlreadyCheckedIn):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCheckedIn))
		default:
			err = fmt.Errorf("v1.HandleCheckIn -> h.svc.CheckIn -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{
		Message:      "checked in",
		Registration: registration,
	})
}

func (h *RegistrationHandler) listForEvent(ctx *gin.Context, onlyCheckedIn bool) {
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

		err = fmt.Errorf("v1.listForEvent -> h.eventSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !user.CanManageEvent(event) {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot view attendees of this event")))
		return
	}

	registrations, err := h.svc.ListByEvent(ctx.Request.Context(), eventID, onlyCheckedIn)
	if err != nil {
		err = fmt.Errorf("v1.listForEvent -> h.svc.ListByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RegistrationsResponse{
		Registrations: registrations,
		Total:         len(registrations),
	})
}

// HandleListEventRegistrations godoc
// @Summary      List all registrations for an event
// @Tags         registrations
// @Produce      json
// @Param        eventId  query     int  true  "Event ID"
// @Success      200      {object}  response.RegistrationsResponse
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListEventRegistrations(ctx *gin.Context) {
	h.listForEvent(ctx, false)
}

// HandleListEventParticipants godoc
// @Summary      List checked-in attendees for an event
// @Tags         registrations
// @Produce      json
// @Param        eventId  query     int  true  "Event ID"
// @Success      200      {object}  response.RegistrationsResponse
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/participants [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListEventParticipants(ctx *gin.Context) {
	h.listForEvent(ctx, true)
}

// HandleListMyRegistrations godoc
// @Summary      List a user's registrations
// @Description  Lists the caller's registrations. Admins may inspect another user via userId.
// @Tags         registrations
// @Produce      json
// @Param        userId  query     int  false  "User ID (admin only)"
// @Success      200  {object}  response.RegistrationsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /user/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID := user.ID
	if raw := ctx.Query("userId"); raw != "" {
		queried, err := parseUintQuery(ctx, "userId")
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if queried != user.ID && user.Role != domain.RoleAdmin {
			response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot view another user's registrations")))
			return
		}
		targetID = queried
	}

	registrations, err := h.svc.ListByUser(ctx.Request.Context(), targetID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRegistrations -> h.svc.ListByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RegistrationsResponse{
		Registrations: registrations,
		Total:         len(registrations),
	})
}
