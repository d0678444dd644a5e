package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"cart-shop/models"
	"cart-shop/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// @Summary Create cart
// @Description Open an empty active cart for the authenticated customer
// @Tags Carts
// @Security BearerAuth
// @Produce json
// @Success 201 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /carts [post]
func (ctrl *CartController) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	cart, err := ctrl.carts.Create(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Cart created", cart)
}

// @Summary List active carts
// @Tags Carts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /carts [get]
func (ctrl *CartController) ListActive(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	carts, err := ctrl.carts.ListActive(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(carts) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "No active cart found"})
		return
	}
	respondOK(c, http.StatusOK, "Active carts retrieved", carts)
}

// @Summary List finalized carts
// @Tags Carts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/finalized [get]
func (ctrl *CartController) ListFinalized(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	carts, err := ctrl.carts.ListFinalized(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(carts) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "No finalized cart found"})
		return
	}
	respondOK(c, http.StatusOK, "Finalized carts retrieved", carts)
}

// @Summary Add item to cart
// @Description Reserve stock for a product in the active cart, attach regional shipping and recompute the total
// @Tags Carts
// @Security BearerAuth
// @Produce json
// @Param product path string true "Product UUID"
// @Param quantity path int true "Quantity"
// @Success 200 {object} models.Response{data=models.CartSummary}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/items/{product}/{quantity} [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid quantity"})
		return
	}

	summary, err := ctrl.carts.AddItem(c.Request.Context(), actor.UserID, c.Param("product"), quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item added to cart", summary)
}

// @Summary Remove item from cart
// @Description Return units of a cart line to stock. The product may be given by UUID or by name.
// @Tags Carts
// @Security BearerAuth
// @Produce json
// @Param product path string true "Product UUID or name"
// @Param quantity query int false "Units to remove" default(1)
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/items/{product} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid quantity"})
		return
	}

	result, err := ctrl.carts.RemoveItem(c.Request.Context(), actor.UserID, c.Param("product"), quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, fmt.Sprintf("Removed %d unit(s) of %s from the cart", result.Removed, result.Name), result)
}

type assignShippingRequest struct {
	ShippingOptionID int `json:"shipping_option_id" binding:"required"`
}

// @Summary Assign shipping option
// @Tags Carts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body assignShippingRequest true "Shipping option"
// @Success 200 {object} models.Response{data=models.CartSummary}
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/shipping [patch]
func (ctrl *CartController) AssignShipping(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req assignShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	summary, err := ctrl.carts.AssignShipping(c.Request.Context(), actor.UserID, req.ShippingOptionID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Shipping assigned", summary)
}

// @Summary Update cart status
// @Description Set the status of the active cart (A active, F finalized)
// @Tags Carts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateCartStatusRequest true "New status"
// @Success 200 {object} models.Response{data=models.CartStatusResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/status [patch]
func (ctrl *CartController) UpdateStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req models.UpdateCartStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "status is required and must be A or F",
			Error:   err.Error(),
		})
		return
	}

	cart, err := ctrl.carts.UpdateStatus(c.Request.Context(), actor.UserID, *req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cart status updated", models.CartStatusResponse{ID: cart.ID, Status: cart.Status})
}
