// Package telegram delivers rendered notifications to users. The dispatcher
// prefers a photo message with the notification as caption when a preview
// image resolves; every failure on that path degrades to a plain text
// message so a broken image host never swallows a notification.
package telegram

import (
	"context"
	"io"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/solxray/wallet-relay/internal/domain"
)

// Sender is the slice of the Telegram bot client the dispatcher needs.
// *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// Thumbnailer turns a remote image URL into upload-ready photo bytes.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, url string) (io.Reader, error)
}

// Dispatcher sends outbound messages to their users.
type Dispatcher struct {
	Sender Sender
	Images Thumbnailer
}

// NewDispatcher constructs a Dispatcher around a bot client.
func NewDispatcher(s Sender, images Thumbnailer) *Dispatcher {
	return &Dispatcher{Sender: s, Images: images}
}

// Send delivers one message. With an image URL present it tries the photo
// path first; thumbnail or upload failure falls back to text. Only the
// final text send reports an error.
func (d *Dispatcher) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if msg.ImageURL != "" && d.sendPhoto(ctx, msg) {
		return nil
	}

	_, err := d.Sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    msg.UserID,
		Text:      msg.Text,
		ParseMode: models.ParseModeMarkdownV1,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", msg.UserID).Msg("notification send failed")
	}
	return err
}

func (d *Dispatcher) sendPhoto(ctx context.Context, msg domain.OutboundMessage) bool {
	photo, err := d.Images.Thumbnail(ctx, msg.ImageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", msg.ImageURL).Msg("thumbnail failed, sending text only")
		return false
	}

	_, err = d.Sender.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    msg.UserID,
		Photo:     &models.InputFileUpload{Filename: "preview.jpg", Data: photo},
		Caption:   msg.Text,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", msg.UserID).Msg("photo send failed, sending text only")
		return false
	}
	return true
}
