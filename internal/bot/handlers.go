package bot

import (
	"context"
	"strconv"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Callback data values carried by the inline keyboard buttons.
const (
	cbAddWallet    = "addWallet"
	cbDeleteWallet = "deleteWallet"
	cbShowWallets  = "showWallets"
	cbBack         = "back"
)

// Service owns the Telegram update loop: it binds the conversation flow and
// state store to the bot client.
type Service struct {
	bot    *tg.Bot
	flow   *Flow
	states *StateStore
}

// New builds the bot client and registers all handlers. The token is
// validated against the Telegram API during construction.
func New(token string, flow *Flow) (*Service, error) {
	s := &Service{flow: flow, states: NewStateStore()}

	b, err := tg.New(token, tg.WithDefaultHandler(s.onMessage))
	if err != nil {
		return nil, err
	}
	s.bot = b

	b.RegisterHandler(tg.HandlerTypeMessageText, "/start", tg.MatchTypeExact, s.onStart)
	b.RegisterHandler(tg.HandlerTypeCallbackQueryData, cbAddWallet, tg.MatchTypeExact, s.onAddWallet)
	b.RegisterHandler(tg.HandlerTypeCallbackQueryData, cbDeleteWallet, tg.MatchTypeExact, s.onDeleteWallet)
	b.RegisterHandler(tg.HandlerTypeCallbackQueryData, cbShowWallets, tg.MatchTypeExact, s.onShowWallets)
	b.RegisterHandler(tg.HandlerTypeCallbackQueryData, cbBack, tg.MatchTypeExact, s.onBack)

	return s, nil
}

// Start runs long polling until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("telegram bot polling started")
	s.bot.Start(ctx)
}

func mainKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✨ Add", CallbackData: cbAddWallet},
				{Text: "🗑️ Delete", CallbackData: cbDeleteWallet},
				{Text: "👀 Show", CallbackData: cbShowWallets},
			},
			{
				{Text: "🔙 Back", CallbackData: cbBack},
			},
		},
	}
}

func startKeyboard() *models.InlineKeyboardMarkup {
	kb := mainKeyboard()
	kb.InlineKeyboard = kb.InlineKeyboard[:1]
	return kb
}

func backKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🔙 Back", CallbackData: cbBack}},
		},
	}
}

func (s *Service) onStart(ctx context.Context, b *tg.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	s.states.Clear(update.Message.Chat.ID)

	_, err := b.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        welcomeText,
		ReplyMarkup: startKeyboard(),
	})
	if err != nil {
		log.Error().Err(err).Msg("start reply failed")
	}
}

// callbackMessage pulls the originating message out of a callback query.
// Telegram marks old messages inaccessible; those callbacks are dropped.
func callbackMessage(update *models.Update) *models.Message {
	if update.CallbackQuery == nil {
		return nil
	}
	return update.CallbackQuery.Message.Message
}

func (s *Service) answerCallback(ctx context.Context, b *tg.Bot, update *models.Update) {
	_, err := b.AnswerCallbackQuery(ctx, &tg.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("callback answer failed")
	}
}

func (s *Service) edit(ctx context.Context, b *tg.Bot, msg *models.Message, text string, kb *models.InlineKeyboardMarkup) {
	params := &tg.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("message edit failed")
	}
}

func (s *Service) onAddWallet(ctx context.Context, b *tg.Bot, update *models.Update) {
	msg := callbackMessage(update)
	if msg == nil {
		return
	}
	s.answerCallback(ctx, b, update)
	s.states.Set(msg.Chat.ID, StateAddingWallet)
	s.edit(ctx, b, msg, addPromptText, backKeyboard())
}

func (s *Service) onDeleteWallet(ctx context.Context, b *tg.Bot, update *models.Update) {
	msg := callbackMessage(update)
	if msg == nil {
		return
	}
	s.answerCallback(ctx, b, update)
	s.states.Set(msg.Chat.ID, StateDeletingWallet)
	s.edit(ctx, b, msg, deletePromptText, backKeyboard())
}

func (s *Service) onShowWallets(ctx context.Context, b *tg.Bot, update *models.Update) {
	msg := callbackMessage(update)
	if msg == nil {
		return
	}
	s.answerCallback(ctx, b, update)

	userID := strconv.FormatInt(update.CallbackQuery.From.ID, 10)
	s.edit(ctx, b, msg, s.flow.ShowWallets(ctx, userID), mainKeyboard())
}

func (s *Service) onBack(ctx context.Context, b *tg.Bot, update *models.Update) {
	msg := callbackMessage(update)
	if msg == nil {
		return
	}
	s.answerCallback(ctx, b, update)
	s.states.Clear(msg.Chat.ID)
	s.edit(ctx, b, msg, backText, nil)

	_, err := b.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        menuText,
		ReplyMarkup: startKeyboard(),
	})
	if err != nil {
		log.Error().Err(err).Msg("menu send failed")
	}
}

// onMessage handles free text: it only matters while the chat is inside an
// add or delete conversation.
func (s *Service) onMessage(ctx context.Context, b *tg.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := strconv.FormatInt(update.Message.From.ID, 10)
	text := update.Message.Text

	switch s.states.Get(chatID) {
	case StateAddingWallet:
		reply, done := s.flow.HandleAddInput(ctx, userID, text)
		kb := backKeyboard()
		if done {
			s.states.Clear(chatID)
			kb = mainKeyboard()
		}
		s.reply(ctx, b, chatID, reply, kb)

	case StateDeletingWallet:
		s.states.Clear(chatID)
		s.reply(ctx, b, chatID, s.flow.HandleDeleteInput(ctx, userID, text), mainKeyboard())
	}
}

func (s *Service) reply(ctx context.Context, b *tg.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, &tg.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}
