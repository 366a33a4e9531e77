package model

// TopLanguagesResponse is the envelope returned by the Github GraphQL API
// either Data is populated or Errors carries at least one payload
type TopLanguagesResponse struct {
	Data   TopLanguagesData    `json:"data"`
	Errors []UpstreamErrorItem `json:"errors,omitempty"`
}

type TopLanguagesData struct {
	User UserNode `json:"user"`
}

type UserNode struct {
	Repositories RepositoryConnection `json:"repositories"`
}

type RepositoryConnection struct {
	Nodes []RepositoryRecord `json:"nodes"`
}

// UpstreamErrorItem is one entry of a GraphQL error payload
// Type is a machine readable code like NOT_FOUND, Message is human readable
// both fields are optional on the wire
type UpstreamErrorItem struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}
