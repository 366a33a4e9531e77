package model

import (
	"bytes"
	"encoding/json"
)

type Language struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LanguageEdge is one language's byte count inside a single repository
type LanguageEdge struct {
	Size int      `json:"size"`
	Node Language `json:"node"`
}

type LanguageConnection struct {
	Edges []LanguageEdge `json:"edges"`
}

// RepositoryRecord is one repository node as returned by the languages query
// the Size attribute exists for the pre-sort but the query never populates it
type RepositoryRecord struct {
	Name      string             `json:"name"`
	Size      int                `json:"size,omitempty"`
	Languages LanguageConnection `json:"languages"`
}

// LanguageStat is the aggregated entry for one canonical language
// Size holds raw bytes before weighting and a dimensionless score after
type LanguageStat struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Count int     `json:"count"`
}

// TopLanguages is the ranked result. Slice order is rank order (descending
// weighted size) and the JSON form is an object whose keys keep that order,
// so consumers iterating the payload see languages from most to least used.
type TopLanguages []LanguageStat

func (t TopLanguages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, stat := range t {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(stat.Name)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(stat)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UserTopLanguages wraps one user's result inside a batch response
// Error is filled instead of Languages when that user's computation failed
type UserTopLanguages struct {
	Username  string       `json:"username"`
	Languages TopLanguages `json:"languages,omitempty"`
	Error     *APIError    `json:"error,omitempty"`
}
