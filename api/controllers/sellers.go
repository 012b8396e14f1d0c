package controllers

import (
	"net/http"

	"github.com/shoplane/shoplane-backend/api/responses"
	"github.com/shoplane/shoplane-backend/api/validators"
	"github.com/shoplane/shoplane-backend/internal/sellers"
	"github.com/shoplane/shoplane-backend/pkg/logger"
)

type createSellerRequest struct {
	DisplayName string  `json:"displayName" validate:"required"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
}

type updateSellerRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
}

// GetSeller returns a seller profile.
func GetSeller(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r, "sellerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.GetProfile(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// CreateSeller registers a seller profile for the caller.
func CreateSeller(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createSellerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.CreateProfile(r.Context(), sellers.CreateProfileInput{
			UserID:      userID,
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			Email:       req.Email,
			Phone:       req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// UpdateSeller mutates a seller profile.
func UpdateSeller(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r, "sellerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateSellerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), id, sellers.UpdateProfileInput{
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			Email:       req.Email,
			Phone:       req.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// DeleteSeller removes a seller profile.
func DeleteSeller(svc sellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePathID(r, "sellerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProfile(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
