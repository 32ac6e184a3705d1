package handler

import (
	"net/http"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) SignUp(c echo.Context) error {
	var req model.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.svc.SignUp(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Profile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Profile(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListStudents(c echo.Context) error {
	students, err := h.svc.ListStudents(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c echo.Context) error {
	var in model.StudentInput
	if err := bind(c, &in); err != nil {
		return err
	}
	student, err := h.svc.CreateStudent(c.Request().Context(), in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, student)
}

func (h *Handler) UpdateStudent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in model.StudentUpdate
	if err = bind(c, &in); err != nil {
		return err
	}
	student, err := h.svc.UpdateStudent(c.Request().Context(), id, in)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, student)
}

func (h *Handler) DeleteStudent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err = h.svc.DeleteStudent(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Student deleted"})
}
