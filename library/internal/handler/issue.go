package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/labstack/echo/v4"
)

// SubmitRequest godoc
// @Summary      request a book
// @Tags         issue
// @Accept       json
// @Produce      json
// @Param        input body model.SubmitRequest true "book to request"
// @Success      201 {object} model.IssueRequest
// @Failure      400,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /issue/new/request [post]
func (h *Handler) SubmitRequest(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.SubmitRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	created, err := h.svc.SubmitRequest(c.Request().Context(), p.ID, req.BookID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListRequests godoc
// @Summary      list issue requests
// @Tags         issue
// @Produce      json
// @Success      200 {array} model.IssueRequest
// @Security     Bearer
// @Router       /issue/requests [get]
func (h *Handler) ListRequests(c echo.Context) error {
	list, err := h.svc.ListRequests(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// ApproveRequest godoc
// @Summary      approve a pending request
// @Tags         issue
// @Accept       json
// @Produce      json
// @Param        input body model.RequestIDRequest true "request to approve"
// @Success      200 {object} model.ActionResponse
// @Failure      400,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /issue/approve [post]
func (h *Handler) ApproveRequest(c echo.Context) error {
	var req model.RequestIDRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.svc.ApproveRequest(c.Request().Context(), req.RequestID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ActionResponse{
		Message: "Request approved and book issued",
		Loan:    &loan,
	})
}

// RejectRequest godoc
// @Summary      reject a pending request
// @Tags         issue
// @Accept       json
// @Produce      json
// @Param        input body model.RequestIDRequest true "request to reject"
// @Success      200 {object} model.ActionResponse
// @Failure      400,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /issue/reject [post]
func (h *Handler) RejectRequest(c echo.Context) error {
	var req model.RequestIDRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rejected, err := h.svc.RejectRequest(c.Request().Context(), req.RequestID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ActionResponse{
		Message: "Request rejected",
		Request: &rejected,
	})
}

// CancelLoan godoc
// @Summary      return an issued book
// @Tags         issue
// @Accept       json
// @Produce      json
// @Param        input body model.CancelLoanRequest true "loan to cancel"
// @Success      200 {object} model.ActionResponse
// @Failure      403,404,500 {object} echo.HTTPError
// @Security     Bearer
// @Router       /issue/cancel-issue [post]
func (h *Handler) CancelLoan(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.CancelLoanRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	loan, err := h.svc.CancelLoan(c.Request().Context(), p, req.IssueID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ActionResponse{
		Message: "Book returned",
		Loan:    &loan,
	})
}

// PurgeFinalized godoc
// @Summary      delete finalized requests
// @Tags         issue
// @Accept       json
// @Produce      json
// @Param        input body model.PurgeRequest false "statuses to purge, Returned by default"
// @Success      200 {object} model.PurgeResponse
// @Failure      400,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /issue/delete-all [post]
func (h *Handler) PurgeFinalized(c echo.Context) error {
	var req model.PurgeRequest
	if err := bindOptional(c, &req); err != nil {
		return err
	}
	n, err := h.svc.PurgeFinalized(c.Request().Context(), req.Statuses)
	if err != nil {
		return h.httpError(err)
	}
	if n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no finalized requests to delete")
	}
	return c.JSON(http.StatusOK, model.PurgeResponse{
		Message: "Finalized requests deleted",
		Deleted: n,
	})
}

// ListLoans godoc
// @Summary      list issued books
// @Tags         issue
// @Produce      json
// @Success      200 {array} model.LoanView
// @Security     Bearer
// @Router       /issue/issued-books [get]
func (h *Handler) ListLoans(c echo.Context) error {
	list, err := h.svc.ListLoans(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) MyBooks(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	list, err := h.svc.StudentLoans(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListEvents(c echo.Context) error {
	var limit int
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		var err error
		if limit, err = strconv.Atoi(limitParam); err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit is invalid")
		}
	}
	list, err := h.svc.ListEvents(c.Request().Context(), limit)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}
