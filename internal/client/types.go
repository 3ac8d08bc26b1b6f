package client

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Search defaults, mirrored by the query command flags.
const (
	DefaultSearchLimit     = 10
	DefaultSearchOffset    = 0
	DefaultSearchThreshold = 50
)

// SearchQuery is the input of a fuzzy search.
type SearchQuery struct {
	Query string
	Limit int
	// Offset skips that many results.
	Offset int
	// Category is sent only when non-empty.
	Category string
	// Threshold is the minimum fuzzy match score, 0-100.
	Threshold int
}

// SearchResult is one entry of a search response. Missing fields are empty.
type SearchResult struct {
	Name        string
	Title       string
	Description string
	// Votes holds the vote count as sent, empty unless it was a number.
	Votes json.Number
}

// VoteCount returns Votes for display, "0" when it is missing or zero.
func (r SearchResult) VoteCount() string {
	if r.Votes == "" {
		return "0"
	}
	if f, err := r.Votes.Float64(); err == nil && f == 0 {
		return "0"
	}
	return r.Votes.String()
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	// Results is decoded leniently: a missing or malformed list is empty,
	// and entries that are not objects have no fields.
	Results []SearchResult

	// Raw is the response body as received.
	Raw json.RawMessage
}

// Worldbook is the body of /api/worldbook/{service}.
type Worldbook struct {
	// Fields holds every top-level field of the document. It is empty when
	// the body is not an object.
	Fields map[string]interface{}

	// Raw is the response body as received.
	Raw json.RawMessage
}

// Content returns the document text. Non-string values are rendered as JSON.
func (w *Worldbook) Content() string {
	value, ok := w.Fields["content"]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(data)
}

// decodeSearchResults extracts the result list of a valid JSON body.
func decodeSearchResults(body []byte) []SearchResult {
	var doc struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}

	results := make([]SearchResult, 0, len(doc.Results))
	for _, raw := range doc.Results {
		fields := decodeObject(raw)

		var r SearchResult
		r.Name = textField(fields, "name")
		r.Title = textField(fields, "title")
		r.Description = textField(fields, "description")
		if n, ok := fields["votes"].(json.Number); ok {
			r.Votes = n
		}
		results = append(results, r)
	}
	return results
}

// decodeObject returns the fields of a JSON object, or nil for any other value.
// Numbers are kept as json.Number.
func decodeObject(raw []byte) map[string]interface{} {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil
	}
	return fields
}

func textField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
