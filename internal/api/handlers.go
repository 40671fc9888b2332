package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stagedoor/boxoffice/internal/engine"
	"github.com/stagedoor/boxoffice/internal/ledger"
)

// accountHeader names the caller on every mutating request.
const accountHeader = "X-Account"

// callerAccount reads the identity header. Empty means anonymous, which
// mutation handlers reject before touching the engine.
func callerAccount(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(accountHeader))
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

type createEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	EventType   string `json:"event_type"`
	EventHeight uint64 `json:"event_height" validate:"required"`
	TotalSupply uint64 `json:"total_supply" validate:"required"`
	BasePrice   uint64 `json:"base_price" validate:"required"`
}

func (s *Server) createEvent(c echo.Context) error {
	caller := callerAccount(c)
	if caller == "" {
		return badRequest(c, "X-Account header required")
	}
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	ev, err := s.eng.CreateEvent(c.Request().Context(), engine.CreateEventParams{
		Creator:     caller,
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		EventType:   req.EventType,
		EventHeight: req.EventHeight,
		TotalSupply: req.TotalSupply,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, newEventView(ev))
}

func (s *Server) listEvents(c echo.Context) error {
	events, err := s.eng.Events(c.Request().Context())
	if err != nil {
		return apiError(c, err)
	}
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, newEventView(ev))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) getEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ev, err := s.eng.Event(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, newEventView(ev))
}

// priceEvent quotes a prospective purchase. Quantity defaults to one;
// group_discount must be asked for explicitly, as on the purchase path.
func (s *Server) priceEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	quantity := uint64(1)
	if q := c.QueryParam("quantity"); q != "" {
		quantity, err = strconv.ParseUint(q, 10, 64)
		if err != nil {
			return badRequest(c, fmt.Sprintf("invalid quantity %q", q))
		}
	}
	groupDiscount := false
	if g := c.QueryParam("group_discount"); g != "" {
		groupDiscount, err = strconv.ParseBool(g)
		if err != nil {
			return badRequest(c, fmt.Sprintf("invalid group_discount %q", g))
		}
	}

	quote, err := s.eng.PriceQuote(c.Request().Context(), id, quantity, groupDiscount)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

type purchaseRequest struct {
	SeatInfo string `json:"seat_info"`
}

// purchase buys one ticket for the caller. The body is optional: a bare
// POST purchases with no seat info.
func (s *Server) purchase(c echo.Context) error {
	caller := callerAccount(c)
	if caller == "" {
		return badRequest(c, "X-Account header required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	result, err := s.eng.Purchase(c.Request().Context(), caller, id, req.SeatInfo)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

type purchaseBatchRequest struct {
	Quantity      uint64   `json:"quantity" validate:"required,gte=1"`
	SeatInfos     []string `json:"seat_infos"`
	GroupDiscount bool     `json:"group_discount"`
}

func (s *Server) purchaseBatch(c echo.Context) error {
	caller := callerAccount(c)
	if caller == "" {
		return badRequest(c, "X-Account header required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req purchaseBatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	seats := req.SeatInfos
	if len(seats) == 0 {
		seats = make([]string, req.Quantity)
	}

	result, err := s.eng.PurchaseBatch(c.Request().Context(), caller, id, req.Quantity, seats, req.GroupDiscount)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// listTickets filters by exactly one of owner or event.
func (s *Server) listTickets(c echo.Context) error {
	owner := c.QueryParam("owner")
	eventParam := c.QueryParam("event")
	if (owner == "") == (eventParam == "") {
		return badRequest(c, "exactly one of owner or event is required")
	}

	ctx := c.Request().Context()
	var tickets []ledger.Ticket
	if owner != "" {
		ts, err := s.eng.TicketsByOwner(ctx, owner)
		if err != nil {
			return apiError(c, err)
		}
		tickets = ts
	} else {
		eventID, err := strconv.ParseUint(eventParam, 10, 64)
		if err != nil {
			return badRequest(c, fmt.Sprintf("invalid event %q", eventParam))
		}
		ts, err := s.eng.TicketsByEvent(ctx, eventID)
		if err != nil {
			return apiError(c, err)
		}
		tickets = ts
	}

	views := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, newTicketView(t))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) getTicket(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	t, err := s.eng.Ticket(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, newTicketView(t))
}

type transferRequest struct {
	To string `json:"to" validate:"required"`
}

func (s *Server) transferTicket(c echo.Context) error {
	caller := callerAccount(c)
	if caller == "" {
		return badRequest(c, "X-Account header required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	t, err := s.eng.Transfer(c.Request().Context(), caller, id, req.To)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, newTicketView(t))
}

func (s *Server) listReceipts(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			return badRequest(c, fmt.Sprintf("invalid limit %q", l))
		}
		limit = parsed
	}

	receipts, err := s.eng.History(c.Request().Context(), c.QueryParam("actor"), c.QueryParam("kind"), limit)
	if err != nil {
		return apiError(c, err)
	}
	views := make([]receiptView, 0, len(receipts))
	for _, r := range receipts {
		views = append(views, newReceiptView(r))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) stats(c echo.Context) error {
	st, err := s.eng.Stats(c.Request().Context())
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

type tickRequest struct {
	By *uint64 `json:"by" validate:"omitempty,gte=1"`
}

type tickResponse struct {
	Height uint64 `json:"height"`
}

// tick advances the logical height. The body is optional; a bare POST
// advances by one.
func (s *Server) tick(c echo.Context) error {
	var req tickRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	by := uint64(1)
	if req.By != nil {
		by = *req.By
	}

	height, err := s.eng.Tick(c.Request().Context(), by)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, tickResponse{Height: height})
}
