package handler

import (
	"net/http"

	"fitfinder-backend/internal/services"
	"fitfinder-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type PlacesHandler struct {
	service *services.PlacesService
}

func NewPlacesHandler(service *services.PlacesService) *PlacesHandler {
	return &PlacesHandler{service: service}
}

// NearbyGyms handles POST /places/nearby-gyms.
func (h *PlacesHandler) NearbyGyms(c *gin.Context) {
	var req httpdto.NearbyGymsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.search(c, services.NearbyInput{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.Radius,
	})
}

// NearbyGymsQuery handles GET /places/nearby-gyms?lat=&lng=&radius=.
func (h *PlacesHandler) NearbyGymsQuery(c *gin.Context) {
	var q httpdto.NearbyGymsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, bindError(err))
		return
	}
	h.search(c, services.NearbyInput{
		Latitude:  *q.Lat,
		Longitude: *q.Lng,
		Radius:    q.Radius,
	})
}

func (h *PlacesHandler) search(c *gin.Context, in services.NearbyInput) {
	gyms, err := h.service.SearchNearby(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewNearbyGymsResponse(gyms)))
}

// UpdateWalkIn handles PATCH /places/gyms/:id/walk-in.
func (h *PlacesHandler) UpdateWalkIn(c *gin.Context) {
	var req httpdto.UpdateWalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	p, err := h.service.UpdateWalkIn(c.Request.Context(), c.Param("id"), *req.WalkIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.NewWalkInResponse(p)))
}
