package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"agrilink/internal/delivery/http/middleware"
	"agrilink/internal/delivery/http/response"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile-related handlers.
type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
	logger         *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(profileUsecase usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		logger:         logger,
	}
}

// profileResponse bundles the account row with whichever role profile
// applies. At most one of the profile fields is set.
type profileResponse struct {
	User     userResponse `json:"user"`
	Farmer   any          `json:"farmer_profile,omitempty"`
	Store    any          `json:"store_profile,omitempty"`
	Broker   any          `json:"broker_profile,omitempty"`
	Expert   any          `json:"expert_profile,omitempty"`
	Student  any          `json:"student_profile,omitempty"`
	Consumer any          `json:"consumer_profile,omitempty"`
	Repaired bool         `json:"repaired,omitempty"`
}

func viewerID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetProfile returns the authenticated user's account and role profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	output, err := h.profileUsecase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := profileResponse{
		User: userResponse{
			ID:       output.User.ID,
			Email:    output.User.Email,
			FullName: output.User.FullName,
			Role:     output.User.UserType.String(),
			Language: output.User.Language,
		},
		Repaired: output.Repaired,
	}
	switch {
	case output.Farmer != nil:
		resp.Farmer = output.Farmer
	case output.Store != nil:
		resp.Store = output.Store
	case output.Broker != nil:
		resp.Broker = output.Broker
	case output.Expert != nil:
		resp.Expert = output.Expert
	case output.Student != nil:
		resp.Student = output.Student
	case output.Consumer != nil:
		resp.Consumer = output.Consumer
	}

	return response.Success(c, http.StatusOK, resp, "Profile retrieved successfully")
}

// UpdateFarmerProfile updates fields of the viewer's farmer profile.
func (h *ProfileHandler) UpdateFarmerProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateFarmerProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid farmer profile input")
	}

	if err := h.profileUsecase.UpdateFarmerProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Farmer profile updated")
}

// UpdateStoreProfile updates fields of the viewer's store profile.
func (h *ProfileHandler) UpdateStoreProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateStoreProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid store profile input")
	}

	if err := h.profileUsecase.UpdateStoreProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Store profile updated")
}

// UpdateBrokerProfile updates fields of the viewer's broker profile.
func (h *ProfileHandler) UpdateBrokerProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateBrokerProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid broker profile input")
	}

	if err := h.profileUsecase.UpdateBrokerProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Broker profile updated")
}

// UpdateExpertProfile updates fields of the viewer's expert profile.
func (h *ProfileHandler) UpdateExpertProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateExpertProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid expert profile input")
	}

	if err := h.profileUsecase.UpdateExpertProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Expert profile updated")
}

// UpdateStudentProfile updates fields of the viewer's student profile.
func (h *ProfileHandler) UpdateStudentProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateStudentProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid student profile input")
	}

	if err := h.profileUsecase.UpdateStudentProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Student profile updated")
}

// UpdateConsumerProfile updates fields of the viewer's consumer profile.
func (h *ProfileHandler) UpdateConsumerProfile(c echo.Context) error {
	userID, ok := viewerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input usecase.UpdateConsumerProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid consumer profile input")
	}

	if err := h.profileUsecase.UpdateConsumerProfile(c.Request().Context(), userID, &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Consumer profile updated")
}

// NearbyMarkets lists broker markets around a coordinate, nearest first.
func (h *ProfileHandler) NearbyMarkets(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "lat must be a number")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "lng must be a number")
	}

	radiusKm := 0.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "radius_km must be a number")
		}
	}

	markets, err := h.profileUsecase.NearbyMarkets(c.Request().Context(), lat, lng, radiusKm)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, markets, "Nearby markets retrieved")
}
