// Package article models generated articles kept in the library.
package article

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Article is a generated article. Data keeps the full generated payload
// verbatim, since its shape belongs to the backend.
type Article struct {
	ID                 string          `json:"id,omitempty"`
	Title              string          `json:"title"`
	WordCount          int             `json:"word_count,omitempty"`
	ReadingTimeMinutes int             `json:"reading_time_minutes,omitempty"`
	ExpansionCount     int             `json:"expansion_count"`
	Status             string          `json:"status,omitempty"`
	Data               json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON accepts both stored articles ({id, data, ...}) and fresh
// generation payloads ({article_id, title, ...}). For the latter the whole
// payload becomes Data.
func (a *Article) UnmarshalJSON(b []byte) error {
	var wire struct {
		ID                 json.RawMessage `json:"id"`
		ArticleID          json.RawMessage `json:"article_id"`
		Title              string          `json:"title"`
		WordCount          int             `json:"word_count"`
		ReadingTimeMinutes int             `json:"reading_time_minutes"`
		ExpansionCount     int             `json:"expansion_count"`
		Status             string          `json:"status"`
		Data               json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("decode article: %w", err)
	}

	id := idString(wire.ID)
	if id == "" {
		id = idString(wire.ArticleID)
	}
	data := wire.Data
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = append(json.RawMessage(nil), b...)
	}

	*a = Article{
		ID:                 id,
		Title:              wire.Title,
		WordCount:          wire.WordCount,
		ReadingTimeMinutes: wire.ReadingTimeMinutes,
		ExpansionCount:     wire.ExpansionCount,
		Status:             wire.Status,
		Data:               data,
	}
	return nil
}

// idString renders a JSON id that may be a string or a number.
func idString(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
