package service

import (
	"context"

	"github.com/Sazid669/github-readme-stats/config"
	"github.com/Sazid669/github-readme-stats/model"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Retryer interface {
	FetchWithRetry(ctx context.Context, username string) (*model.TopLanguagesResponse, error)
}

type githubRetryer struct {
	fetcher     Fetcher
	rateLimiter *rate.Limiter
	tokens      []string
	maxRetries  int
}

// NewGithubRetryer wraps a fetcher with bounded retries
// each attempt uses the next configured token, so a rate limited token is
// simply rotated out instead of failing the whole request
func NewGithubRetryer(cfg config.Config, fetcher Fetcher, rateLimiter *rate.Limiter) Retryer {
	maxRetries := cfg.Tasks.MaxRetriesAllowed

	if maxRetries < 1 {
		maxRetries = 1
	}

	return githubRetryer{
		fetcher:     fetcher,
		rateLimiter: rateLimiter,
		tokens:      cfg.Github.Tokens,
		maxRetries:  maxRetries,
	}
}

// FetchWithRetry executes the fetch until a usable response comes back
// transport failures and RATE_LIMITED payloads trigger the next attempt,
// every other response (including NOT_FOUND payloads) is returned as is
// for the stats service to triage
func (r githubRetryer) FetchWithRetry(ctx context.Context, username string) (*model.TopLanguagesResponse, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if !r.rateLimiter.Allow() {
			log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
			return nil, model.NewRateLimitError()
		}

		res, err := r.fetcher.FetchTopLanguages(ctx, username, r.tokenForAttempt(attempt))

		if err != nil {
			log.WithFields(log.Fields{
				"username": username,
				"attempt":  attempt + 1,
			}).WithError(err).Warning("fetch attempt failed, will retry")

			lastErr = err
			continue
		}

		if isRateLimited(res) {
			log.WithFields(log.Fields{
				"username": username,
				"attempt":  attempt + 1,
			}).Warning("token rate limited by github, will retry with the next token")

			lastErr = model.NewRateLimitError()
			continue
		}

		return res, nil
	}

	log.WithField("maxRetries", r.maxRetries).Error("downstream fetcher still failing after all retries")

	if lastErr == nil {
		lastErr = model.NewFetchError()
	}

	return nil, lastErr
}

func (r githubRetryer) tokenForAttempt(attempt int) string {
	if len(r.tokens) == 0 {
		return ""
	}

	return r.tokens[attempt%len(r.tokens)]
}

// isRateLimited reports whether the response only failed because the
// current token ran out of quota
func isRateLimited(res *model.TopLanguagesResponse) bool {
	for _, item := range res.Errors {
		if item.Type == "RATE_LIMITED" {
			return true
		}
	}

	return false
}
