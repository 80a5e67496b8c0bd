package twitter

import (
	"context"
	"fmt"
	"net/http"
)

// TweetOptions represents optional parameters for creating a tweet
type TweetOptions struct {
	ReplyTo      string
	QuoteTweetID string
}

type replyParams struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// CreateTweetRequest represents the request body for creating a tweet
type CreateTweetRequest struct {
	Text         string       `json:"text"`
	QuoteTweetID string       `json:"quote_tweet_id,omitempty"`
	Reply        *replyParams `json:"reply,omitempty"`
}

// PostTweetAsync creates a new tweet asynchronously and returns channels for the response and errors
func (c *TwitterClient) PostTweetAsync(ctx context.Context, text string, opts *TweetOptions) (chan *Tweet, chan error) {
	tweets := make(chan *Tweet, 1)
	errors := make(chan error, 1)

	go func() {
		defer close(tweets)
		defer close(errors)

		request := CreateTweetRequest{
			Text: text,
		}

		if opts != nil {
			request.QuoteTweetID = opts.QuoteTweetID
			if opts.ReplyTo != "" {
				request.Reply = &replyParams{InReplyToTweetID: opts.ReplyTo}
			}
		}

		resp, err := c.makeRequest(ctx, http.MethodPost, c.config.TweetEndpoint, nil, request)
		if err != nil {
			c.logger.WithError(err).Error("failed to post tweet")
			errors <- err
			return
		}

		var created CreateTweetResponse
		if err := c.decodeResponse(resp, &created); err != nil {
			c.logger.WithError(err).Error("failed to decode tweet response")
			errors <- err
			return
		}
		if created.Data.ID == "" {
			errors <- fmt.Errorf("tweet response carried no id")
			return
		}

		tweets <- &Tweet{ID: created.Data.ID, Text: created.Data.Text}
	}()

	return tweets, errors
}

// PostTweet creates a new tweet synchronously
func (c *TwitterClient) PostTweet(ctx context.Context, text string, opts *TweetOptions) (*Tweet, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tweets, errs := c.PostTweetAsync(ctx, text, opts)

	select {
	case tweet := <-tweets:
		if tweet == nil {
			return nil, <-errs
		}
		return tweet, nil
	case err := <-errs:
		if err == nil {
			return <-tweets, nil
		}
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
