// Package gmail fetches bank notification emails from a user's mailbox.
// Access is strictly read-only.
package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvaldivia/soltrack/internal/config"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Message is one fetched bank email, already decoded to plain text.
type Message struct {
	ID      string
	From    string
	Subject string
	Date    string
	Body    string
}

// Client lists and fetches bank notification messages for an owner.
type Client struct {
	cfg    config.GmailConfig
	logger *slog.Logger
}

func NewClient(cfg config.GmailConfig, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// ForEach fetches every bank email within the lookback window and invokes fn
// per message. Individual message fetch failures are logged and skipped so
// one bad message never aborts the run; a failing list call or an error
// returned by fn does.
func (c *Client) ForEach(ctx context.Context, tokenSource oauth2.TokenSource, lookbackDays int, fn func(Message) error) error {
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return fmt.Errorf("create gmail service: %w", err)
	}

	query := BuildQuery(c.cfg.BankSenders, lookbackDays)
	c.logger.Info("fetching bank emails", "query", query)

	pageToken := ""
	total := 0
	for {
		call := svc.Users.Messages.List("me").Q(query).MaxResults(c.cfg.PageSize).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}

		for _, ref := range resp.Messages {
			full, err := svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			if err != nil {
				c.logger.Error("failed to fetch message", "email_id", ref.Id, "error", err)
				continue
			}
			total++
			if err := fn(newMessage(full)); err != nil {
				return err
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Info("fetched bank emails", "total", total)
	return nil
}

func newMessage(msg *gmailapi.Message) Message {
	headers := map[string]string{}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			headers[strings.ToLower(h.Name)] = h.Value
		}
	}
	return Message{
		ID:      msg.Id,
		From:    headers["from"],
		Subject: headers["subject"],
		Date:    headers["date"],
		Body:    DecodeBody(msg.Payload),
	}
}
