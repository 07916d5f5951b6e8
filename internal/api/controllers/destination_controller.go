package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voyago/internal/services"
	"voyago/pkg/utils"
)

type DestinationController struct {
	destinationService services.DestinationServiceInterface
}

func NewDestinationController(destinationService services.DestinationServiceInterface) *DestinationController {
	return &DestinationController{
		destinationService: destinationService,
	}
}

func (dc *DestinationController) ListDestinationsHandler(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	destinations, err := dc.destinationService.ListDestinations(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, destinations, "Destinations retrieved successfully")
}

func (dc *DestinationController) SearchDestinationsHandler(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		utils.RespondError(c, http.StatusBadRequest, "Keyword is required")
		return
	}

	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	destinations, err := dc.destinationService.SearchDestinations(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, destinations, "Destinations retrieved successfully")
}

// parsePagination reads the shared page/pageSize query params, answering the
// request itself when they are invalid.
func parsePagination(c *gin.Context) (page, pageSize int, ok bool) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("pageSize", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return 0, 0, false
	}

	pageSize, err = strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return 0, 0, false
	}

	return page, pageSize, true
}
