package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyago/internal/models/request_models"
	"voyago/internal/services"
	"voyago/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
	}
}

// GenerateItinerary godoc
// @Summary Generate a travel itinerary
// @Description Build a complete day-by-day itinerary for the authenticated user from a free-text prompt. Consumes one generation credit unless the plan is served from cache.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param request body request_models.ItineraryRequest true "Generation request"
// @Success 200 {object} response_models.Itinerary
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/generate [post]
func (ic *ItineraryController) GenerateItinerary(c *gin.Context) {
	var req request_models.ItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userId := c.GetString("user_id")

	plan, err := ic.itineraryService.GenerateItinerary(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Itinerary generated successfully")
}

// ListMyItineraries godoc
// @Summary List my saved itineraries
// @Description Page through the authenticated user's previously generated plans
// @Tags Itineraries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {array} response_models.SavedItinerarySummary
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/get-my-itineraries [get]
func (ic *ItineraryController) ListMyItineraries(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	userId := c.GetString("user_id")

	itineraries, err := ic.itineraryService.ListSavedItineraries(c.Request.Context(), userId, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itineraries, "Itineraries retrieved successfully")
}

// GetItineraryDetails godoc
// @Summary Get one saved itinerary
// @Description Fetch the full stored plan, including every period and activity
// @Tags Itineraries
// @Produce json
// @Param itineraryId path string true "Itinerary ID"
// @Success 200 {object} response_models.SavedItineraryDetail
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/get-itinerary-details/{itineraryId} [get]
func (ic *ItineraryController) GetItineraryDetails(c *gin.Context) {
	itineraryId := c.Param("itineraryId")
	if itineraryId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Itinerary ID is required")
		return
	}

	userId := c.GetString("user_id")

	detail, err := ic.itineraryService.GetSavedItinerary(c.Request.Context(), userId, itineraryId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Itinerary retrieved successfully")
}
