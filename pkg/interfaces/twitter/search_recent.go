package twitter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// SearchParams holds the parameters for the recent search request
type SearchParams struct {
	// Query is the search expression, e.g. "@handle".
	Query string

	// SinceID returns only tweets newer than this id. Empty means no lower bound.
	SinceID string

	// MaxResults is the page size. Valid values are 10-100; zero leaves it to the API.
	MaxResults int

	TweetFields []string
	UserFields  []string
	Expansions  []string
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	q.Set("query", p.Query)
	if p.SinceID != "" {
		q.Set("since_id", p.SinceID)
	}
	if p.MaxResults > 0 {
		q.Set("max_results", strconv.Itoa(p.MaxResults))
	}
	if len(p.TweetFields) > 0 {
		q.Set("tweet.fields", strings.Join(p.TweetFields, ","))
	}
	if len(p.UserFields) > 0 {
		q.Set("user.fields", strings.Join(p.UserFields, ","))
	}
	if len(p.Expansions) > 0 {
		q.Set("expansions", strings.Join(p.Expansions, ","))
	}
	return q
}

// SearchRecent runs a recent-search query and returns a single page of
// results, newest first as the API orders them.
//
// Rate Limits:
// - App-only auth: 450 requests per 15-minute window
// - User auth: 180 requests per 15-minute window
func (c *TwitterClient) SearchRecent(ctx context.Context, params SearchParams) (*TweetResponse, error) {
	log := c.logger.WithFields(logrus.Fields{
		"method":   "SearchRecent",
		"query":    params.Query,
		"since_id": params.SinceID,
	})

	resp, err := c.makeRequest(ctx, http.MethodGet, c.config.SearchEndpoint, params.values(), nil)
	if err != nil {
		log.WithError(err).Error("failed to search recent tweets")
		return nil, err
	}

	var tweetResp TweetResponse
	if err := c.decodeResponse(resp, &tweetResp); err != nil {
		log.WithError(err).Error("failed to decode search response")
		return nil, err
	}

	log.WithField("result_count", len(tweetResp.Data)).Debug("Search completed")

	return &tweetResp, nil
}
