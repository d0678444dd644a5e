package controllers

import (
	"net/http"

	"cart-shop/models"
	"cart-shop/services"

	"github.com/gin-gonic/gin"
)

type ShippingController struct {
	shipping *services.ShippingService
}

func NewShippingController(shipping *services.ShippingService) *ShippingController {
	return &ShippingController{shipping: shipping}
}

// @Summary List shipping regions
// @Description Static table of state codes grouped by shipping region
// @Tags Shipping
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.RegionInfo}
// @Router /shipping/regions [get]
func (ctrl *ShippingController) Regions(c *gin.Context) {
	respondOK(c, http.StatusOK, "Regions retrieved", ctrl.shipping.Regions())
}

// @Summary List shipping options
// @Tags Shipping
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.ShippingOption}
// @Router /shipping-options [get]
func (ctrl *ShippingController) List(c *gin.Context) {
	options, err := ctrl.shipping.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Shipping options retrieved", options)
}

// @Summary Get shipping option
// @Tags Shipping
// @Security BearerAuth
// @Produce json
// @Param id path int true "Shipping option ID"
// @Success 200 {object} models.Response{data=models.ShippingOption}
// @Failure 404 {object} models.ErrorResponse
// @Router /shipping-options/{id} [get]
func (ctrl *ShippingController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	option, err := ctrl.shipping.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Shipping option retrieved", option)
}

// @Summary Create shipping option
// @Description Without a region the option takes the region of the creator's first address
// @Tags Admin - Shipping
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateShippingOptionRequest true "Shipping option"
// @Success 201 {object} models.Response{data=models.ShippingOption}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /shipping-options [post]
func (ctrl *ShippingController) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req models.CreateShippingOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	option, err := ctrl.shipping.Create(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Shipping option created", option)
}

// @Summary Update shipping option
// @Tags Admin - Shipping
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Shipping option ID"
// @Param request body models.ShippingOptionPatch true "Fields to change"
// @Success 200 {object} models.Response{data=models.ShippingOption}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shipping-options/{id} [put]
func (ctrl *ShippingController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch models.ShippingOptionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	option, err := ctrl.shipping.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Shipping option updated", option)
}

// @Summary Delete shipping option
// @Tags Admin - Shipping
// @Security BearerAuth
// @Produce json
// @Param id path int true "Shipping option ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /shipping-options/{id} [delete]
func (ctrl *ShippingController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.shipping.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Shipping option deleted", nil)
}
