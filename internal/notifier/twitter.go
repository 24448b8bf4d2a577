package notifier

import (
	"context"
	"fmt"
	"os"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

const tweetLimit = 280

// TwitterNotifier posts availability digests to Twitter.
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a Twitter notifier using environment variables.
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

func (n *TwitterNotifier) Name() string { return "twitter" }

// Notify posts one tweet summarizing the digest.
func (n *TwitterNotifier) Notify(_ context.Context, d *Digest) error {
	tweet := formatTweet(d)

	if _, _, err := n.client.Statuses.Update(tweet, nil); err != nil {
		return fmt.Errorf("posting tweet: %w", err)
	}
	return nil
}

// formatTweet renders the digest as a tweet, truncated to the 280-character
// limit on a rune boundary.
func formatTweet(d *Digest) string {
	tweet := fmt.Sprintf("🎾 %s 예약 가능! (%d곳)\n\n", d.Title, len(d.Groups))
	for _, g := range d.Groups {
		tweet += g.CourtName + "\n"
		for _, dg := range g.Dates {
			tweet += fmt.Sprintf("%d월 %d일: %d개 시간대\n", dg.Month, dg.Date, len(dg.Times))
		}
	}

	if runes := []rune(tweet); len(runes) > tweetLimit {
		tweet = string(runes[:tweetLimit-3]) + "..."
	}
	return tweet
}
