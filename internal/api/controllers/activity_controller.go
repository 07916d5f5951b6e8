package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyago/internal/models/request_models"
	"voyago/internal/services"
	"voyago/pkg/utils"
)

type ActivityController struct {
	activityService services.ActivityServiceInterface
}

func NewActivityController(activityService services.ActivityServiceInterface) *ActivityController {
	return &ActivityController{
		activityService: activityService,
	}
}

// UpsertActivity godoc
// @Summary Create or update a corpus activity
// @Description Admin-only. Upserts by title and refreshes the search embedding.
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body request_models.UpsertActivityRequest true "Activity payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /activities/upsert [post]
func (ac *ActivityController) UpsertActivity(c *gin.Context) {
	var req request_models.UpsertActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id, err := ac.activityService.UpsertActivity(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": id}, "Activity saved successfully")
}

func (ac *ActivityController) GetActivityById(c *gin.Context) {
	activityId := c.Param("activityId")
	if activityId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Activity ID is required")
		return
	}

	activity, err := ac.activityService.GetActivityById(c.Request.Context(), activityId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activity, "Activity retrieved successfully")
}

func (ac *ActivityController) ListActivities(c *gin.Context) {
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

	activities, err := ac.activityService.ListActivities(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activities, "Activities retrieved successfully")
}

func (ac *ActivityController) SearchActivities(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		utils.RespondError(c, http.StatusBadRequest, "Keyword is required")
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
			return
		}
		limit = parsed
	}

	activities, err := ac.activityService.SearchActivities(c.Request.Context(), keyword, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, activities, "Activities retrieved successfully")
}
