package delivery

import (
	"context"

	slackgo "github.com/slack-go/slack"
)

// SlackAnnouncer posts announce deliveries to a Slack channel or user.
type SlackAnnouncer struct {
	api *slackgo.Client
}

// NewSlackAnnouncer creates an announcer from a bot token.
func NewSlackAnnouncer(botToken string) *SlackAnnouncer {
	return &SlackAnnouncer{api: slackgo.New(botToken)}
}

func (s *SlackAnnouncer) Name() string { return "slack" }

// Announce posts text to the given channel/user ID.
func (s *SlackAnnouncer) Announce(ctx context.Context, to, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, to, slackgo.MsgOptionText(text, false))
	return err
}
