package twitter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/lisanmuaddib/x402bot/pkg/interfaces/twitter"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

var _ = Describe("TwitterClient", func() {
	var (
		server   *httptest.Server
		mux      *http.ServeMux
		client   *twitter.TwitterClient
		ctx      context.Context
		cancel   context.CancelFunc
		lastReq  *http.Request
		lastBody []byte
	)

	BeforeEach(func() {
		mux = http.NewServeMux()
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			lastBody, _ = io.ReadAll(r.Body)
			mux.ServeHTTP(w, r)
		}))

		logger := logrus.New()
		logger.SetOutput(GinkgoWriter)

		var err error
		client, err = twitter.NewTwitterClient(&twitter.TwitterConfig{
			BearerToken: "test-token",
			BaseURL:     server.URL,
			RateLimit:   180,
			RateWindow:  15,
			Logger:      logger,
		})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	})

	AfterEach(func() {
		cancel()
		server.Close()
	})

	Describe("NewTwitterClient", func() {
		It("rejects a config without credentials", func() {
			_, err := twitter.NewTwitterClient(&twitter.TwitterConfig{
				RateLimit:  1,
				RateWindow: 1,
				Logger:     logrus.New(),
			})
			Expect(err).To(MatchError(ContainSubstring("Bearer token must be provided")))
		})

		It("rejects a non-positive rate limit", func() {
			_, err := twitter.NewTwitterClient(&twitter.TwitterConfig{
				BearerToken: "x",
				RateWindow:  1,
				Logger:      logrus.New(),
			})
			Expect(err).To(MatchError(ContainSubstring("rate limit must be positive")))
		})
	})

	Describe("GetMe", func() {
		It("returns the authenticated user and sends the bearer header", func() {
			mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":{"id":"42","name":"Bot","username":"Bot"}}`)
			})

			user, err := client.GetMe(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("42"))
			Expect(user.Username).To(Equal("Bot"))
			Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer test-token"))
		})

		It("reads a slow body through a context without deadline", func() {
			mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":{"id":"42","name":"`)
				w.(http.Flusher).Flush()
				time.Sleep(50 * time.Millisecond)
				_, _ = io.WriteString(w, strings.Repeat("x", 200*1024)+`","username":"Bot"}}`)
			})

			for i := 0; i < 3; i++ {
				user, err := client.GetMe(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(user.Username).To(Equal("Bot"))
			}
		})

		It("surfaces API errors as APIError", func() {
			mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"title":"Unauthorized","detail":"Unauthorized","status":401}`)
			})

			_, err := client.GetMe(ctx)
			var apiErr *twitter.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(apiErr.Message).To(Equal("Unauthorized"))
		})
	})

	Describe("SearchRecent", func() {
		It("encodes the query, since_id and expansions", func() {
			mux.HandleFunc("/tweets/search/recent", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{
					"data":[{"id":"5","text":"@Bot help","author_id":"u1"},{"id":"4","text":"@Bot hi","author_id":"u2"}],
					"includes":{"users":[{"id":"u1","username":"Alice"},{"id":"u2","username":"bob"}]},
					"meta":{"result_count":2,"newest_id":"5","oldest_id":"4"}
				}`)
			})

			resp, err := client.SearchRecent(ctx, twitter.SearchParams{
				Query:       "@Bot",
				SinceID:     "3",
				MaxResults:  10,
				TweetFields: []string{"created_at", "author_id"},
				UserFields:  []string{"username"},
				Expansions:  []string{"author_id"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Data).To(HaveLen(2))
			Expect(resp.Data[0].ID).To(Equal("5"))

			q := lastReq.URL.Query()
			Expect(lastReq.Method).To(Equal(http.MethodGet))
			Expect(q.Get("query")).To(Equal("@Bot"))
			Expect(q.Get("since_id")).To(Equal("3"))
			Expect(q.Get("max_results")).To(Equal("10"))
			Expect(q.Get("tweet.fields")).To(Equal("created_at,author_id"))
			Expect(q.Get("expansions")).To(Equal("author_id"))

			user, ok := resp.UserByID("u1")
			Expect(ok).To(BeTrue())
			Expect(user.Username).To(Equal("Alice"))
		})

		It("omits since_id when no cursor is given", func() {
			mux.HandleFunc("/tweets/search/recent", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"meta":{"result_count":0}}`)
			})

			resp, err := client.SearchRecent(ctx, twitter.SearchParams{Query: "@Bot"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Data).To(BeEmpty())
			Expect(lastReq.URL.Query().Has("since_id")).To(BeFalse())
		})

		It("reports rate limiting", func() {
			mux.HandleFunc("/tweets/search/recent", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, `{"title":"Too Many Requests"}`)
			})

			_, err := client.SearchRecent(ctx, twitter.SearchParams{Query: "@Bot"})
			var apiErr *twitter.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.IsRateLimited()).To(BeTrue())
		})
	})

	Describe("PostReply", func() {
		It("posts the reply addressed to the parent tweet", func() {
			mux.HandleFunc("/tweets", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"data":{"id":"99","text":"@alice hi"}}`)
			})

			tweet, err := client.PostReply(ctx, "@alice hi", "T1")
			Expect(err).NotTo(HaveOccurred())
			Expect(tweet.ID).To(Equal("99"))
			Expect(lastReq.Method).To(Equal(http.MethodPost))

			var body map[string]interface{}
			Expect(json.Unmarshal(lastBody, &body)).To(Succeed())
			Expect(body["text"]).To(Equal("@alice hi"))
			Expect(body["reply"]).To(HaveKeyWithValue("in_reply_to_tweet_id", "T1"))
		})

		It("returns the error when the API rejects the tweet", func() {
			mux.HandleFunc("/tweets", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"errors":[{"code":187,"message":"Status is a duplicate."}]}`)
			})

			_, err := client.PostReply(ctx, "dup", "T1")
			Expect(err).To(MatchError(ContainSubstring("duplicate")))
		})
	})
})
