package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Statistics(c echo.Context) error {
	st, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}
