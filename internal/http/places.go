package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hbnb/internal/domain"
	"hbnb/internal/service"
)

type createPlaceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	OwnerID     string   `json:"owner_id"`
	Amenities   []string `json:"amenities"`
}

type updatePlaceRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	OwnerID     *string   `json:"owner_id"`
	Amenities   *[]string `json:"amenities"`
}

func (h *Handler) createPlace(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// Only admins may list a place on behalf of someone else.
	identity := identityFrom(c)
	ownerID := identity.SubjectID
	if identity.IsAdmin && strings.TrimSpace(req.OwnerID) != "" {
		ownerID = req.OwnerID
	}

	place, err := h.places.CreatePlace(c.Request.Context(), service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OwnerID:     ownerID,
		AmenityIDs:  req.Amenities,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placeToResponse(place))
}

func (h *Handler) listPlaces(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		places []*domain.Place
		err    error
	)
	if owner := c.Query("owner_id"); owner != "" {
		places, err = h.places.GetPlacesByOwner(ctx, owner)
	} else {
		places, err = h.places.GetAllPlaces(ctx)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]PlaceResponse, len(places))
	for i := range places {
		resp[i] = placeToResponse(places[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPlace(c *gin.Context) {
	ctx := c.Request.Context()
	place, err := h.places.GetPlace(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	owner, err := h.users.GetUser(ctx, place.OwnerID)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		h.writeError(c, err)
		return
	}
	amenities, err := h.places.PlaceAmenities(ctx, place)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, placeToDetail(place, owner, amenities))
}

func (h *Handler) updatePlace(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	place, err := h.places.UpdatePlace(c.Request.Context(), c.Param("id"), domain.PlaceChanges{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OwnerID:     req.OwnerID,
		AmenityIDs:  req.Amenities,
	}, identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, placeToResponse(place))
}

// deletePlace removes the place and then, best effort, its stored photos.
func (h *Handler) deletePlace(c *gin.Context) {
	id := c.Param("id")
	if err := h.places.DeletePlace(c.Request.Context(), id, identityFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{"deleted": id}
	if h.photos != nil {
		err := h.photos.DeleteAll(c.Request.Context(), id)
		if err != nil && !errors.Is(err, service.ErrStorageNotConfigured) {
			h.logger.WithError(err).WithField("place_id", id).Warn("delete place photos")
			resp["warnings"] = []string{fmt.Sprintf("delete photos: %v", err)}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listPlaceReviews(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.places.GetPlace(ctx, id); err != nil {
		h.writeError(c, err)
		return
	}
	reviews, err := h.reviews.GetReviewsByPlace(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = reviewToResponse(reviews[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	if h.photos == nil {
		h.writeError(c, service.ErrStorageNotConfigured)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("file is required: %w", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.writeError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	photo, err := h.photos.Upload(c.Request.Context(), c.Param("id"), header.Header.Get("Content-Type"), file, identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) listPhotos(c *gin.Context) {
	if h.photos == nil {
		h.writeError(c, service.ErrStorageNotConfigured)
		return
	}
	photos, err := h.photos.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}
