package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/domain/cart"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver/helpers"
)

// Cart handlers
func (s *Server) getCart(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	ct, err := s.cartSvc.GetCart(c.Request().Context(), accountID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ct)
}

func (s *Server) addCartItem(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	var req cart.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ct, err := s.cartSvc.AddItem(c.Request().Context(), accountID, req.ProductRef, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ct)
}

func (s *Server) removeCartItem(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	productRef := c.Param("product_ref")
	if productRef == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_ref is required")
	}

	ct, err := s.cartSvc.RemoveItem(c.Request().Context(), accountID, productRef)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ct)
}

func (s *Server) clearCart(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	if err := s.cartSvc.ClearCart(c.Request().Context(), accountID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
