package httpdto

import "fitfinder-backend/internal/domain/place"

// NearbyGymsRequest is used for POST /places/nearby-gyms
type NearbyGymsRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Radius    int      `json:"radius" binding:"omitempty,gte=100,lte=50000"`
}

// NearbyGymsQuery is used for GET /places/nearby-gyms
type NearbyGymsQuery struct {
	Lat    *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	Radius int      `form:"radius" binding:"omitempty,gte=100,lte=50000"`
}

type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceResponse struct {
	ID                  string       `json:"id"`
	DisplayName         *string      `json:"displayName"`
	FormattedAddress    *string      `json:"formattedAddress"`
	Location            *LocationDTO `json:"location"`
	Rating              *float64     `json:"rating"`
	UserRatingCount     *int         `json:"userRatingCount"`
	GoogleMapsURI       *string      `json:"googleMapsUri"`
	WebsiteURI          *string      `json:"websiteUri"`
	NationalPhoneNumber *string      `json:"nationalPhoneNumber"`
	Photos              []string     `json:"photos"`
	WalkIn              bool         `json:"walk_in"`
}

type NearbyGymsResponse struct {
	Places []PlaceResponse `json:"places"`
}

// UpdateWalkInRequest is used for PATCH /places/gyms/{id}/walk-in
type UpdateWalkInRequest struct {
	WalkIn *bool `json:"walk_in" binding:"required"`
}

type WalkInResponse struct {
	ID       int64  `json:"id"`
	PlacesID string `json:"places_id"`
	WalkIn   bool   `json:"walk_in"`
}

func NewNearbyGymsResponse(gyms []place.Gym) NearbyGymsResponse {
	resp := NearbyGymsResponse{Places: make([]PlaceResponse, 0, len(gyms))}
	for _, g := range gyms {
		item := PlaceResponse{
			ID:                  g.ID,
			DisplayName:         optional(g.DisplayName),
			FormattedAddress:    optional(g.FormattedAddress),
			Rating:              g.Rating,
			UserRatingCount:     g.UserRatingCount,
			GoogleMapsURI:       optional(g.GoogleMapsURI),
			WebsiteURI:          optional(g.WebsiteURI),
			NationalPhoneNumber: optional(g.NationalPhoneNumber),
			Photos:              g.PhotoURLs,
			WalkIn:              g.WalkIn,
		}
		if item.Photos == nil {
			item.Photos = []string{}
		}
		if g.Location != nil {
			item.Location = &LocationDTO{Latitude: g.Location.Latitude, Longitude: g.Location.Longitude}
		}
		resp.Places = append(resp.Places, item)
	}
	return resp
}

func NewWalkInResponse(p place.Place) WalkInResponse {
	return WalkInResponse{ID: p.ID, PlacesID: p.PlacesID, WalkIn: p.WalkIn}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
