// Package discord posts notify.Message values to a Discord channel webhook.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/cory-johannsen/tabletop/internal/notify"
)

// ErrWebhookURL is returned for a URL that does not name a webhook.
var ErrWebhookURL = errors.New("invalid webhook url")

// Executor is the subset of *discordgo.Session used to post to a webhook.
type Executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Config is the webhook endpoint, injected at construction.
type Config struct {
	URL      string
	Username string
	Timeout  time.Duration
}

// Notifier posts one embed per message.
type Notifier struct {
	exec     Executor
	id       string
	token    string
	username string
}

// ParseWebhookURL extracts the webhook ID and token from a URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrWebhookURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrWebhookURL, raw)
}

// New builds a Notifier backed by a token-less discordgo session.
//
// Precondition: cfg.URL must be a Discord webhook URL.
func New(cfg Config) (*Notifier, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord: creating session: %w", err)
	}
	if cfg.Timeout > 0 {
		s.Client = &http.Client{Timeout: cfg.Timeout}
	}
	return NewWithExecutor(cfg, s)
}

// NewWithExecutor builds a Notifier that posts through exec.
func NewWithExecutor(cfg Config, exec Executor) (*Notifier, error) {
	id, token, err := ParseWebhookURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	return &Notifier{exec: exec, id: id, token: token, username: cfg.Username}, nil
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(ctx context.Context, msg notify.Message) error {
	params := &discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{Embed(msg)},
	}
	if _, err := n.exec.WebhookExecute(n.id, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: executing webhook: %w", err)
	}
	return nil
}

// Embed converts msg into a Discord embed, keeping field order.
func Embed(msg notify.Message) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if msg.Author != "" {
		e.Author = &discordgo.MessageEmbedAuthor{Name: msg.Author}
	}
	if msg.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	for _, f := range msg.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return e
}
