package service

import (
	"github.com/Sazid669/github-readme-stats/config"
	"github.com/Sazid669/github-readme-stats/model"
	"github.com/gin-gonic/gin"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

type StatsService interface {
	GetTopLanguages(ctx *gin.Context, query model.TopLanguagesQuery) (model.TopLanguages, error)
	GetTopLanguagesForUsers(ctx *gin.Context, queries []model.TopLanguagesQuery) []model.UserTopLanguages

	HandleResponseErrors(res *model.TopLanguagesResponse) error
}

type statsService struct {
	retryer Retryer
	config  config.Config
}

func NewStatsService(config config.Config, retryer Retryer) StatsService {
	return statsService{
		retryer: retryer,
		config:  config,
	}
}

// GetTopLanguages validates the query, fetches the repository nodes through
// the retryer and runs the aggregation pipeline on the materialized response
func (s statsService) GetTopLanguages(c *gin.Context, query model.TopLanguagesQuery) (model.TopLanguages, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"username":    query.Username,
		"sizeWeight":  query.SizeWeight,
		"countWeight": query.CountWeight,
	}).Info("compute top languages for user")

	res, err := s.retryer.FetchWithRetry(c, query.Username)

	if err != nil {
		return nil, err
	}

	if err := s.HandleResponseErrors(res); err != nil {
		return nil, err
	}

	return ComputeTopLanguages(
		res.Data.User.Repositories.Nodes,
		query.ExcludedRepositories(),
		query.SizeWeight,
		query.CountWeight,
	), nil
}

// GetTopLanguagesForUsers computes the ranking for several users at once
// fetches run in parallel through a sized wait group, results keep the
// input order and a failing user only affects its own entry
func (s statsService) GetTopLanguagesForUsers(c *gin.Context, queries []model.TopLanguagesQuery) []model.UserTopLanguages {

	// create a group to wait for all goroutines to finish
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	// collect each user result through a channel keyed by the query index
	// so the response keeps the order the usernames were requested in
	type indexedResult struct {
		index  int
		result model.UserTopLanguages
	}

	results := make(chan indexedResult, len(queries))

	for i, query := range queries {
		swg.Add()

		go func(index int, query model.TopLanguagesQuery) {
			defer swg.Done()

			languages, err := s.GetTopLanguages(c, query)

			if err != nil {
				log.WithFields(log.Fields{
					"username": query.Username,
				}).WithError(err).Warning("unable to compute top languages for user in batch")

				_, apiErr := model.NewAPIError(err)
				results <- indexedResult{index: index, result: model.UserTopLanguages{Username: query.Username, Error: &apiErr}}
				return
			}

			results <- indexedResult{index: index, result: model.UserTopLanguages{Username: query.Username, Languages: languages}}
		}(i, query)
	}

	// wait for all tasks to be finished
	log.Debug("waiting for all threads computing top languages to be finished")
	swg.Wait()
	log.Debug("all threads computing top languages finished")

	// close the channel
	close(results)

	ordered := make([]model.UserTopLanguages, len(queries))
	for r := range results {
		ordered[r.index] = r.result
	}

	return ordered
}

// HandleResponseErrors triages the error payload of an upstream response
// the raw payload is logged before any typed error is surfaced
func (s statsService) HandleResponseErrors(res *model.TopLanguagesResponse) error {
	if len(res.Errors) == 0 {
		return nil
	}

	log.WithField("errors", res.Errors).Error("github graphql response carries an error payload")

	first := res.Errors[0]

	if first.Type == "NOT_FOUND" {
		return model.NewUserNotFoundError(first.Message)
	}

	if first.Message != "" {
		return model.NewUpstreamMessageError(first.Message)
	}

	return model.NewGraphQLError()
}
