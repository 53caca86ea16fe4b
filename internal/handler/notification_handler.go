package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gestion-agents/internal/domain"
	"gestion-agents/internal/middleware"
	"gestion-agents/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

// List returns the caller's notifications, newest first, as a bare array.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	notifications, err := h.notifService.List(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	notifications, err := h.notifService.ListUnread(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notifService.UnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	notif, err := h.notifService.MarkAsRead(c.Context(), notifID, userID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return middleware.NotFound("Notification not found")
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notif)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notifService.MarkAllAsRead(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": strconv.FormatInt(count, 10) + " notification(s) marked as read",
	})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	err = h.notifService.Delete(c.Context(), notifID, userID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		return middleware.NotFound("Notification not found")
	}
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) DeleteAllRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	if err := h.notifService.DeleteAllRead(c.Context(), userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type emitRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	SubjectRef  *uuid.UUID `json:"subject_ref,omitempty"`
}

// Emit is the back-office entry point for manual announcements. Domain
// modules call the service directly; this is for admins only.
func (h *NotificationHandler) Emit(c *fiber.Ctx) error {
	var req emitRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if req.RecipientID == uuid.Nil || req.Title == "" || req.Message == "" {
		return middleware.BadRequest("recipient_id, title and message are required")
	}

	kind := domain.NotificationKind(req.Kind)
	notif, err := h.notifService.Emit(c.Context(), req.RecipientID, kind, req.Title, req.Message, req.SubjectRef)
	if errors.Is(err, domain.ErrInvalidKind) {
		return middleware.BadRequest("Invalid notification kind")
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(notif)
}
