package controllers

import (
	"net/http"

	"cart-shop/models"
	"cart-shop/services"
	"cart-shop/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profiles      *services.ProfileService
	maxUploadSize int64
}

func NewProfileController(profiles *services.ProfileService, maxUploadSize int64) *ProfileController {
	return &ProfileController{profiles: profiles, maxUploadSize: maxUploadSize}
}

// @Summary List profiles
// @Tags Admin - Profiles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Profile}
// @Router /profiles [get]
func (ctrl *ProfileController) List(c *gin.Context) {
	profiles, err := ctrl.profiles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profiles retrieved", profiles)
}

// @Summary Get profile
// @Tags Profiles
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response{data=models.Profile}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [get]
func (ctrl *ProfileController) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	profile, err := ctrl.profiles.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile retrieved", profile)
}

// @Summary Update profile
// @Tags Profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.ProfilePatch true "Fields to change"
// @Success 200 {object} models.Response{data=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /profiles/{id} [put]
func (ctrl *ProfileController) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := ctrl.profiles.Update(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile updated", profile)
}

// @Summary Delete profile
// @Tags Admin - Profiles
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [delete]
func (ctrl *ProfileController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.profiles.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile deleted", nil)
}

// @Summary Upload avatar
// @Tags Profiles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} models.Response{data=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Router /profiles/avatar [post]
func (ctrl *ProfileController) UploadAvatar(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "avatar file is required"})
		return
	}
	if err := utils.ValidateImage(header, ctrl.maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	profile, err := ctrl.profiles.UpdateAvatar(c.Request.Context(), actor.UserID, header)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Avatar updated", profile)
}

// @Summary List addresses
// @Description The caller's addresses ordered by id. Admins see every address.
// @Tags Addresses
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Address}
// @Router /addresses [get]
func (ctrl *ProfileController) ListAddresses(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	addresses, err := ctrl.profiles.ListAddresses(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Addresses retrieved", addresses)
}

// @Summary Create address
// @Tags Addresses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateAddressRequest true "Address"
// @Success 201 {object} models.Response{data=models.Address}
// @Failure 400 {object} models.ErrorResponse
// @Router /addresses [post]
func (ctrl *ProfileController) CreateAddress(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req models.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	address, err := ctrl.profiles.CreateAddress(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Address created", address)
}

// @Summary Get address
// @Tags Addresses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Address ID"
// @Success 200 {object} models.Response{data=models.Address}
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id} [get]
func (ctrl *ProfileController) GetAddress(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	address, err := ctrl.profiles.GetAddress(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Address retrieved", address)
}

// @Summary Update address
// @Tags Addresses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Address ID"
// @Param request body models.AddressPatch true "Fields to change"
// @Success 200 {object} models.Response{data=models.Address}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id} [put]
func (ctrl *ProfileController) UpdateAddress(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch models.AddressPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	address, err := ctrl.profiles.UpdateAddress(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Address updated", address)
}

// @Summary Delete address
// @Tags Admin - Addresses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Address ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id} [delete]
func (ctrl *ProfileController) DeleteAddress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.profiles.DeleteAddress(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Address deleted", nil)
}
