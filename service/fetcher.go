package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Sazid669/github-readme-stats/config"
	"github.com/Sazid669/github-readme-stats/model"

	log "github.com/sirupsen/logrus"
)

// topLanguagesQueryDocument is the GraphQL document executed per user
// only the owner's non fork repositories are considered, with the ten
// largest languages of each one
const topLanguagesQueryDocument = `
query userInfo($login: String!) {
  user(login: $login) {
    repositories(ownerAffiliations: OWNER, isFork: false, first: 100) {
      nodes {
        name
        languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
          edges {
            size
            node {
              color
              name
            }
          }
        }
      }
    }
  }
}`

type Fetcher interface {
	FetchTopLanguages(ctx context.Context, username string, token string) (*model.TopLanguagesResponse, error)
}

type githubFetcher struct {
	httpClient *http.Client
	endpoint   string
}

// NewGithubFetcher builds the fetcher used against the Github GraphQL API
// the http client comes from the shared github client so the authorization
// transport and the mocked client used in tests are both reused as-is
func NewGithubFetcher(cfg config.Config, httpClient *http.Client) Fetcher {
	return githubFetcher{
		httpClient: httpClient,
		endpoint:   cfg.Github.GraphQLEndpoint,
	}
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

// FetchTopLanguages executes the languages query for a single user
// a non empty token overrides the client credentials for this request only,
// which is how the retryer rotates tokens when the rate limit is reached
func (f githubFetcher) FetchTopLanguages(ctx context.Context, username string, token string) (*model.TopLanguagesResponse, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query:     topLanguagesQueryDocument,
		Variables: map[string]string{"login": username},
	})

	if err != nil {
		return nil, model.NewFetchError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))

	if err != nil {
		return nil, model.NewFetchError()
	}

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "bearer "+token)
	}

	log.WithFields(log.Fields{
		"username": username,
		"endpoint": f.endpoint,
	}).Debug("execute top languages query against github")

	res, err := f.httpClient.Do(req)

	if err != nil {
		log.WithError(err).Error("error catched when fetching data from github")
		return nil, model.NewFetchError()
	}

	defer res.Body.Close()

	var response model.TopLanguagesResponse

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		log.WithError(err).Error("unable to decode github graphql response")
		return nil, model.NewFetchError()
	}

	return &response, nil
}
