package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/Sazid669/github-readme-stats/config"
	"github.com/Sazid669/github-readme-stats/model"
	"github.com/gin-gonic/gin"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

var graphQLEndpointPattern = githubMock.EndpointPattern{
	Pattern: "/graphql",
	Method:  "POST",
}

// newMockedStatsService wires a stats service against a mocked graphql endpoint
func newMockedStatsService(t *testing.T, mockResponse model.TopLanguagesResponse, rateLimit int) StatsService {
	t.Helper()

	mockedHTTPClient := githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			graphQLEndpointPattern,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, err := w.Write(githubMock.MustMarshal(mockResponse))

				if err != nil {
					t.Error("unable to configure mock http client")
				}
			}),
		),
	)

	mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimit)
	conf := config.GetDefault()

	fetcher := NewGithubFetcher(*conf, mockedHTTPClient)
	retryer := NewGithubRetryer(*conf, fetcher, mockedRateLimiter)

	return NewStatsService(*conf, retryer)
}

// TestGetTopLanguages will test function GetTopLanguages
func TestGetTopLanguages(t *testing.T) {
	tests := []struct {
		name           string
		query          model.TopLanguagesQuery
		mockResponse   model.TopLanguagesResponse
		rateLimit      int
		expected       model.TopLanguages
		expectError    bool
		expectedKind   model.ErrorKind
		expectedErrMsg string
	}{
		{
			name:      "Aggregation across two repositories",
			rateLimit: 60,
			query:     model.TopLanguagesQuery{Username: "anuraghazra", SizeWeight: 1},
			mockResponse: model.TopLanguagesResponse{
				Data: model.TopLanguagesData{
					User: model.UserNode{
						Repositories: model.RepositoryConnection{
							Nodes: []model.RepositoryRecord{
								repoWithEdges("repo-a", edge(100, "JavaScript", "#f1e05a")),
								repoWithEdges("repo-b", edge(50, "JavaScript", "#f1e05a")),
							},
						},
					},
				},
			},
			expected: model.TopLanguages{
				{Name: "JavaScript", Color: "#f1e05a", Size: 150, Count: 2},
			},
			expectError: false,
		},
		{
			name:      "Exclusion list removes a repository before aggregation",
			rateLimit: 60,
			query: model.TopLanguagesQuery{
				Username:    "anuraghazra",
				ExcludeRepo: []string{"repo-b"},
				SizeWeight:  1,
			},
			mockResponse: model.TopLanguagesResponse{
				Data: model.TopLanguagesData{
					User: model.UserNode{
						Repositories: model.RepositoryConnection{
							Nodes: []model.RepositoryRecord{
								repoWithEdges("repo-a", edge(100, "JavaScript", "#f1e05a")),
								repoWithEdges("repo-b", edge(50, "JavaScript", "#f1e05a")),
							},
						},
					},
				},
			},
			expected: model.TopLanguages{
				{Name: "JavaScript", Color: "#f1e05a", Size: 100, Count: 1},
			},
			expectError: false,
		},
		{
			name:           "Missing username fails before any fetch",
			rateLimit:      60,
			query:          model.TopLanguagesQuery{Username: "   ", SizeWeight: 1},
			expectError:    true,
			expectedKind:   model.ErrorKindMissingParameter,
			expectedErrMsg: "MISSING_PARAMETER: missing params \"username\" make sure you pass the parameters in the request URL",
		},
		{
			name:      "Not found payload without message uses the fallback",
			rateLimit: 60,
			query:     model.TopLanguagesQuery{Username: "ghost-user", SizeWeight: 1},
			mockResponse: model.TopLanguagesResponse{
				Errors: []model.UpstreamErrorItem{
					{Type: "NOT_FOUND"},
				},
			},
			expectError:    true,
			expectedKind:   model.ErrorKindUserNotFound,
			expectedErrMsg: "USER_NOT_FOUND: Could not fetch user",
		},
		{
			name:      "Not found payload keeps the upstream message",
			rateLimit: 60,
			query:     model.TopLanguagesQuery{Username: "ghost-user", SizeWeight: 1},
			mockResponse: model.TopLanguagesResponse{
				Errors: []model.UpstreamErrorItem{
					{Type: "NOT_FOUND", Message: "Could not resolve to a User with the login of 'ghost-user'."},
				},
			},
			expectError:    true,
			expectedKind:   model.ErrorKindUserNotFound,
			expectedErrMsg: "USER_NOT_FOUND: Could not resolve to a User with the login of 'ghost-user'.",
		},
		{
			name:      "Payload with a message but no recognized type",
			rateLimit: 60,
			query:     model.TopLanguagesQuery{Username: "anuraghazra", SizeWeight: 1},
			mockResponse: model.TopLanguagesResponse{
				Errors: []model.UpstreamErrorItem{
					{Message: "Some fields are missing"},
				},
			},
			expectError:    true,
			expectedKind:   model.ErrorKindUpstreamMessage,
			expectedErrMsg: "UPSTREAM_MESSAGE_ERROR: Some fields are missing",
		},
		{
			name:      "Payload without type nor message falls back to a generic error",
			rateLimit: 60,
			query:     model.TopLanguagesQuery{Username: "anuraghazra", SizeWeight: 1},
			mockResponse: model.TopLanguagesResponse{
				Errors: []model.UpstreamErrorItem{{}},
			},
			expectError:    true,
			expectedKind:   model.ErrorKindGraphQL,
			expectedErrMsg: "GRAPHQL_ERROR: Something went wrong while processing the data",
		},
		{
			name:         "Exhausted local rate limiter",
			rateLimit:    0,
			query:        model.TopLanguagesQuery{Username: "anuraghazra", SizeWeight: 1},
			expectError:  true,
			expectedKind: model.ErrorKindRateLimitReached,
		},
	}

	// execute tests
	for _, tt := range tests {

		t.Run(tt.name, func(t *testing.T) {
			svc := newMockedStatsService(t, tt.mockResponse, tt.rateLimit)

			// Prepare the context and query
			gin.SetMode(gin.TestMode)
			ctx, _ := gin.CreateTestContext(nil)
			languages, err := svc.GetTopLanguages(ctx, tt.query)

			if tt.expectError {
				assert.Error(t, err)

				var statsErr *model.StatsError
				if assert.ErrorAs(t, err, &statsErr) {
					assert.Equal(t, tt.expectedKind, statsErr.Kind)
				}

				if tt.expectedErrMsg != "" {
					assert.EqualError(t, err, tt.expectedErrMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, languages)
			}
		})
	}
}

// TestGetTopLanguagesForUsers test function called GetTopLanguagesForUsers
func TestGetTopLanguagesForUsers(t *testing.T) {
	tests := []struct {
		name         string
		queries      []model.TopLanguagesQuery
		mockResponse model.TopLanguagesResponse
		expected     []model.UserTopLanguages
	}{
		{
			name: "Batch over two users keeps the input order",
			queries: []model.TopLanguagesQuery{
				{Username: "user-one", SizeWeight: 1},
				{Username: "user-two", SizeWeight: 1},
			},
			mockResponse: model.TopLanguagesResponse{
				Data: model.TopLanguagesData{
					User: model.UserNode{
						Repositories: model.RepositoryConnection{
							Nodes: []model.RepositoryRecord{
								repoWithEdges("repo-a", edge(10, "Go", "#00ADD8")),
							},
						},
					},
				},
			},
			expected: []model.UserTopLanguages{
				{Username: "user-one", Languages: model.TopLanguages{{Name: "Go", Color: "#00ADD8", Size: 10, Count: 1}}},
				{Username: "user-two", Languages: model.TopLanguages{{Name: "Go", Color: "#00ADD8", Size: 10, Count: 1}}},
			},
		},
		{
			name: "Failing users carry their own error entry",
			queries: []model.TopLanguagesQuery{
				{Username: "ghost-one", SizeWeight: 1},
				{Username: "ghost-two", SizeWeight: 1},
			},
			mockResponse: model.TopLanguagesResponse{
				Errors: []model.UpstreamErrorItem{
					{Type: "NOT_FOUND"},
				},
			},
			expected: []model.UserTopLanguages{
				{Username: "ghost-one", Error: &model.APIError{Code: "USER_NOT_FOUND", Message: "Could not fetch user"}},
				{Username: "ghost-two", Error: &model.APIError{Code: "USER_NOT_FOUND", Message: "Could not fetch user"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockedStatsService(t, tt.mockResponse, 60)

			gin.SetMode(gin.TestMode)
			ctx, _ := gin.CreateTestContext(nil)

			assert.Equal(t, tt.expected, svc.GetTopLanguagesForUsers(ctx, tt.queries))
		})
	}
}
