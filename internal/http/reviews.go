package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hbnb/internal/domain"
	"hbnb/internal/service"
)

type createReviewRequest struct {
	Text    *string `json:"text"`
	Rating  *int    `json:"rating"`
	UserID  *string `json:"user_id"`
	PlaceID *string `json:"place_id"`
}

type updateReviewRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// The author is the caller; admins may post on behalf of another user.
	identity := identityFrom(c)
	author := identity.SubjectID
	if identity.IsAdmin && req.UserID != nil && strings.TrimSpace(*req.UserID) != "" {
		author = *req.UserID
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), service.CreateReviewInput{
		Text:    req.Text,
		Rating:  req.Rating,
		UserID:  &author,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewToResponse(review))
}

func (h *Handler) listReviews(c *gin.Context) {
	reviews, err := h.reviews.GetAllReviews(c.Request.Context())
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

func (h *Handler) getReview(c *gin.Context) {
	review, err := h.reviews.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewToResponse(review))
}

func (h *Handler) updateReview(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.reviews.UpdateReview(c.Request.Context(), c.Param("id"), domain.ReviewChanges{
		Text:   req.Text,
		Rating: req.Rating,
	}, identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewToResponse(review))
}

func (h *Handler) deleteReview(c *gin.Context) {
	id := c.Param("id")
	if err := h.reviews.DeleteReview(c.Request.Context(), id, identityFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
