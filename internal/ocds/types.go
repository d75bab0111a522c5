package ocds

import "encoding/json"

// Query holds the parameters of one search request.
type Query struct {
	Year   int
	Search string
	Page   int // 0 is sent as page 1
}

// searchResponse is the envelope returned by search_ocds. Only the data list
// is consumed; paging metadata is ignored since only page 1 is requested.
type searchResponse struct {
	Data json.RawMessage `json:"data"`
}
