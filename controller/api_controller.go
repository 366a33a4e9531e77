package controller

import (
	"net/http"

	"github.com/Sazid669/github-readme-stats/config"
	"github.com/Sazid669/github-readme-stats/model"
	"github.com/Sazid669/github-readme-stats/service"
	"github.com/gin-gonic/gin"
)

type APIController interface {
	GetTopLanguages(ctx *gin.Context)
	GetTopLanguagesBatch(ctx *gin.Context)
}

type apiController struct {
	statsService service.StatsService
	config       config.Config
}

func NewAPIController(config config.Config, service service.StatsService) APIController {
	return apiController{
		statsService: service,
		config:       config,
	}
}

func (s apiController) GetTopLanguages(c *gin.Context) {
	var query model.TopLanguagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	// execute the request
	languages, err := s.statsService.GetTopLanguages(c, query)
	if err != nil {
		status, apiErr := model.NewAPIError(err)
		c.JSON(status, apiErr)
		return
	}

	c.JSON(http.StatusOK, languages)
}

func (s apiController) GetTopLanguagesBatch(c *gin.Context) {
	var batchQuery model.BatchTopLanguagesQuery
	if err := c.ShouldBindQuery(&batchQuery); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	queries := batchQuery.ToQueries()

	if len(queries) == 0 {
		status, apiErr := model.NewAPIError(model.NewMissingParameterError("usernames"))
		c.JSON(status, apiErr)
		return
	}

	c.JSON(http.StatusOK, s.statsService.GetTopLanguagesForUsers(c, queries))
}
