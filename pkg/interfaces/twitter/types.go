package twitter

import "fmt"

// Tweet holds the v2 tweet fields the bot requests.
type Tweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorID       string `json:"author_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	Lang           string `json:"lang,omitempty"`
}

// TweetResponse represents the Twitter API response format for tweet lists
type TweetResponse struct {
	Data     []Tweet        `json:"data"`
	Includes *TweetIncludes `json:"includes,omitempty"`
	Errors   []TwitterError `json:"errors,omitempty"`
	Meta     *Meta          `json:"meta,omitempty"`
}

// TweetIncludes contains the expanded objects in the response
type TweetIncludes struct {
	Users  []User  `json:"users,omitempty"`
	Tweets []Tweet `json:"tweets,omitempty"`
}

// UserByID returns the expanded user with the given id.
func (r *TweetResponse) UserByID(id string) (User, bool) {
	if r == nil || r.Includes == nil {
		return User{}, false
	}
	for _, u := range r.Includes.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// Meta contains information about the response
type Meta struct {
	ResultCount int    `json:"result_count,omitempty"`
	NextToken   string `json:"next_token,omitempty"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
}

// User represents a Twitter user object
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// UserResponse wraps a single user lookup.
type UserResponse struct {
	Data   *User          `json:"data"`
	Errors []TwitterError `json:"errors,omitempty"`
}

// CreateTweetResponse is the body returned by POST /tweets.
type CreateTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// TwitterError represents an error entry inside a Twitter API payload
type TwitterError struct {
	Code    int    `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *TwitterError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Twitter API error %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("Twitter API error %d: %s", e.Code, e.Message)
}

// APIError is returned for non-2xx HTTP responses.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api error: status=%d code=%d message=%s", e.StatusCode, e.Code, e.Message)
}

// IsRateLimited reports whether the API rejected the call with 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}
