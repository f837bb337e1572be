package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/credjud/marketplace/internal/core/ports"
)

// ListingHandler serves the credit listing catalogue.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// List returns every listing.
//
// @Summary      List credit listings
// @Tags         credits
// @Produce      json
// @Success      200  {array}   listingResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/credits [get]
func (h *ListingHandler) List(c echo.Context) error {
	listings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

// ListAcquired returns the listings flagged as acquired.
//
// @Summary      List acquired credit listings
// @Tags         credits
// @Produce      json
// @Success      200  {array}   listingResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/credits/acquired [get]
func (h *ListingHandler) ListAcquired(c echo.Context) error {
	listings, err := h.service.ListAcquired(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponses(listings))
}

// Get returns one listing with its reservations.
//
// @Summary      Get a credit listing
// @Tags         credits
// @Produce      json
// @Param        id   path      string  true  "Listing ID"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/credits/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	l, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

// Create adds a new listing.
//
// @Summary      Create a credit listing
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/credits [post]
func (h *ListingHandler) Create(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	l, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toListingResponse(l))
}

// Update applies a partial update to a listing.
//
// @Summary      Update a credit listing
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing ID"
// @Param        body  body      updateListingRequest  true  "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/credits/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	l, err := h.service.Update(c.Request().Context(), toUpdateInput(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(l))
}

// Delete removes a listing together with its reservations.
//
// @Summary      Delete a credit listing
// @Tags         credits
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/credits/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
