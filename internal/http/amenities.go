package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hbnb/internal/domain"
	"hbnb/internal/service"
)

type createAmenityRequest struct {
	Name string `json:"name"`
}

type updateAmenityRequest struct {
	Name *string `json:"name"`
}

func (h *Handler) createAmenity(c *gin.Context) {
	var req createAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amenity, err := h.amenities.CreateAmenity(c.Request.Context(), service.CreateAmenityInput{Name: req.Name})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, amenityToResponse(amenity))
}

func (h *Handler) listAmenities(c *gin.Context) {
	amenities, err := h.amenities.GetAllAmenities(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]AmenityResponse, len(amenities))
	for i := range amenities {
		resp[i] = amenityToResponse(amenities[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getAmenity(c *gin.Context) {
	amenity, err := h.amenities.GetAmenity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenityToResponse(amenity))
}

func (h *Handler) updateAmenity(c *gin.Context) {
	var req updateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amenity, err := h.amenities.UpdateAmenity(c.Request.Context(), c.Param("id"), domain.AmenityChanges{Name: req.Name}, identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenityToResponse(amenity))
}

func (h *Handler) deleteAmenity(c *gin.Context) {
	id := c.Param("id")
	if err := h.amenities.DeleteAmenity(c.Request.Context(), id, identityFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
