package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier posts messages to Slack channels using the Web API. It
// implements bridge.Notifier.
type Notifier struct {
	client *slack.Client
}

// NewNotifier creates a notifier from a bot token. Extra options are
// passed through to the underlying client; tests use slack.OptionAPIURL to
// point at a local server.
func NewNotifier(token string, opts ...slack.Option) *Notifier {
	return &Notifier{client: slack.New(token, opts...)}
}

// PostMessage sends text to the named channel. The channel may be an ID or
// a #name reference; Slack resolves both.
func (n *Notifier) PostMessage(ctx context.Context, channel, text string) error {
	_, _, err := n.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("failed to post to %s: %w", channel, err)
	}
	return nil
}
