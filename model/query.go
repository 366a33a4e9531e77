package model

import "strings"

type TopLanguagesQuery struct {
	Username    string   `form:"username"`
	ExcludeRepo []string `form:"exclude_repo"`
	SizeWeight  float64  `form:"size_weight,default=1"`
	CountWeight float64  `form:"count_weight,default=0"`
}

// Validate checks the required parameters before any fetch happens
func (params TopLanguagesQuery) Validate() error {
	if strings.TrimSpace(params.Username) == "" {
		return NewMissingParameterError("username")
	}

	return nil
}

// ExcludedRepositories builds the exclusion set from the query values
// each value can itself be a comma separated list of repository names
func (params TopLanguagesQuery) ExcludedRepositories() map[string]bool {
	excluded := make(map[string]bool)

	for _, value := range params.ExcludeRepo {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)

			if name != "" {
				excluded[name] = true
			}
		}
	}

	return excluded
}

type BatchTopLanguagesQuery struct {
	Usernames   []string `form:"usernames"`
	ExcludeRepo []string `form:"exclude_repo"`
	SizeWeight  float64  `form:"size_weight,default=1"`
	CountWeight float64  `form:"count_weight,default=0"`
}

// ToQueries expands the batch parameters into one query per username
// duplicates are kept, empty entries are dropped
func (params BatchTopLanguagesQuery) ToQueries() []TopLanguagesQuery {
	queries := make([]TopLanguagesQuery, 0, len(params.Usernames))

	for _, value := range params.Usernames {
		for _, username := range strings.Split(value, ",") {
			username = strings.TrimSpace(username)

			if username == "" {
				continue
			}

			queries = append(queries, TopLanguagesQuery{
				Username:    username,
				ExcludeRepo: params.ExcludeRepo,
				SizeWeight:  params.SizeWeight,
				CountWeight: params.CountWeight,
			})
		}
	}

	return queries
}
