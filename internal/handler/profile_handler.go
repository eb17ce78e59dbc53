package handler

import (
	"errors"
	"net/http"

	"planner/internal/model"
	"planner/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	repo *repository.ProfileRepository
}

func NewProfileHandler(repo *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{repo: repo}
}

type ProfileRequest struct {
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=32"`
	Address   string `json:"address" binding:"max=255"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

type ProfileResponse struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	AvatarURL     string `json:"avatar_url"`
	EmailVerified bool   `json:"email_verified"`
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	return ProfileResponse{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Address:       p.Address,
		AvatarURL:     p.AvatarURL,
		EmailVerified: p.EmailVerified,
	}
}

func (h *ProfileHandler) load(c *gin.Context) (*model.Profile, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	profile, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found", Code: "not_found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve profile"})
		return nil, false
	}
	return profile, true
}

// Get godoc
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// Update godoc
// @Summary      Edit the current user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ProfileRequest  true  "Profile"
// @Success      200      {object}  ProfileResponse
// @Router       /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, ok := h.load(c)
	if !ok {
		return
	}

	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Phone = req.Phone
	profile.Address = req.Address
	profile.AvatarURL = req.AvatarURL

	if err := h.repo.Update(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// VerifyEmail godoc
// @Summary      Mark the current user's email as verified
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Router       /profile/verify-email [post]
func (h *ProfileHandler) VerifyEmail(c *gin.Context) {
	profile, ok := h.load(c)
	if !ok {
		return
	}

	if profile.VerifyEmail() {
		if err := h.repo.Update(c.Request.Context(), profile); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update profile"})
			return
		}
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}
