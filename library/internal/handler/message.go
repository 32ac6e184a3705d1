package handler

import (
	"net/http"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) SendMessage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var in model.MessageContent
	if err = bind(c, &in); err != nil {
		return err
	}
	msg, err := h.svc.SendToAdmin(c.Request().Context(), p.ID, in.Content)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) ReplyMessage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	messageID, err := paramID(c, "messageId")
	if err != nil {
		return err
	}
	var in model.MessageContent
	if err = bind(c, &in); err != nil {
		return err
	}
	msg, err := h.svc.Reply(c.Request().Context(), p.ID, messageID, in.Content)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) SendToAll(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var in model.MessageContent
	if err = bind(c, &in); err != nil {
		return err
	}
	n, err := h.svc.SendToAll(c.Request().Context(), p.ID, in.Content)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Message sent to all students", "count": n})
}

func (h *Handler) SendToStudent(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in model.MessageContent
	if err = bind(c, &in); err != nil {
		return err
	}
	msg, err := h.svc.SendToStudent(c.Request().Context(), p.ID, studentID, in.Content)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) Inbox(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.svc.Inbox(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// AdminMessages lists what students sent to the calling admin.
func (h *Handler) AdminMessages(c echo.Context) error {
	return h.received(c)
}

// StudentMessages lists what admins sent to the calling student.
func (h *Handler) StudentMessages(c echo.Context) error {
	return h.received(c)
}

func (h *Handler) received(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.svc.Received(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteMessage(c echo.Context) error {
	id, err := paramID(c, "messageId")
	if err != nil {
		return err
	}
	if err = h.svc.DeleteMessage(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Message deleted"})
}
