package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jadeja143/ghost/internal/domain"
	"github.com/Jadeja143/ghost/internal/services"
	"github.com/Jadeja143/ghost/internal/transport/httpdto"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Create records an action against a recipient. The caller is the actor;
// the triggering like/comment/follow pipelines live outside this service
// and call in through here.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req httpdto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	actorID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	recipientID, err := parseUUID(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid recipient_id", "INVALID_REQUEST"))
		return
	}

	targetID := uuid.NullUUID{}
	if req.TargetID != "" {
		id, err := parseUUID(req.TargetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid target_id", "INVALID_REQUEST"))
			return
		}
		targetID = uuid.NullUUID{UUID: id, Valid: true}
	}

	n, err := h.service.Notify(c.Request.Context(), recipientID, actorID, domain.NotificationKind(req.Kind), targetID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if n == nil {
		// Self-notification, suppressed.
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"suppressed": true}))
		return
	}

	displays := map[uuid.UUID]domain.UserDisplay{}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromNotification(*n, displays)))
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	notifications, displays, err := h.service.List(c.Request.Context(), userID, page)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListNotificationsResponse{
		Notifications: httpdto.FromNotificationSlice(notifications, displays),
		Page:          page,
	}))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid notification id", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"id": notificationID.String(), "read": true}))
}
