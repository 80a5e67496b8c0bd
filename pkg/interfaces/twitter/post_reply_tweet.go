package twitter

import (
	"context"

	"github.com/sirupsen/logrus"
)

// PostReply creates a reply to an existing tweet
func (c *TwitterClient) PostReply(ctx context.Context, text, replyToID string) (*Tweet, error) {
	log := c.logger.WithFields(logrus.Fields{
		"text":      text,
		"replyToID": replyToID,
	})
	log.Debug("attempting to post reply tweet")

	tweet, err := c.PostTweet(ctx, text, &TweetOptions{
		ReplyTo: replyToID,
	})
	if err != nil {
		log.WithError(err).Error("failed to post reply tweet")
		return nil, err
	}

	log.WithField("tweetID", tweet.ID).Debug("successfully posted reply tweet")

	return tweet, nil
}
