// Package notify delivers broadcast notifications to customers. The
// Telegram notifier is the delivery worker behind the notification topics:
// it watches the topic channel and pushes each published notification to
// every linked chat.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"railcrm/backend/internal/config"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
)

// TelegramNotifier links Telegram chats to CRM accounts and fans broadcast
// notifications out to them.
type TelegramNotifier struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
	Redis   *redis.Client
}

// NewTelegramNotifier creates a notifier from a bot token.
func NewTelegramNotifier(token string, s storage.Storage, rdb *redis.Client) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Notifier authorized on account %s", bot.Self.UserName)

	return &TelegramNotifier{BotAPI: bot, Storage: s, Redis: rdb}, nil
}

// Run starts the link-command loop and the broadcast loop. It blocks until
// the context is cancelled.
func (n *TelegramNotifier) Run(ctx context.Context) {
	go n.handleLinkCommands(ctx)
	n.handleBroadcasts(ctx)
}

// handleLinkCommands processes bot updates. A customer links their chat by
// sending "/start <account-id>" (the deep-link payload from the app).
func (n *TelegramNotifier) handleLinkCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := n.BotAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			n.BotAPI.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() || msg.Command() != "start" {
				continue
			}

			accountID := strings.TrimSpace(msg.CommandArguments())
			if accountID == "" {
				n.reply(msg.Chat.ID, "Open the CRM app and use the notification link to connect this chat.")
				continue
			}

			if err := n.Storage.LinkTelegramChat(accountID, msg.Chat.ID); err != nil {
				log.Printf("ERROR: Failed to link chat %d to account %s: %v", msg.Chat.ID, accountID, err)
				n.reply(msg.Chat.ID, "Could not link this chat. Check the link and try again.")
				continue
			}
			n.reply(msg.Chat.ID, "Connected. You will receive service announcements here.")
		}
	}
}

// handleBroadcasts watches the all_users topic and pushes each notification
// to every linked chat.
func (n *TelegramNotifier) handleBroadcasts(ctx context.Context) {
	pubsub := n.Redis.Subscribe(ctx, "notify:"+config.NotificationTopic)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var notification models.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
				log.Printf("ERROR: Failed to unmarshal notification: %v", err)
				continue
			}
			n.broadcast(&notification)
		}
	}
}

func (n *TelegramNotifier) broadcast(notification *models.Notification) {
	chatIDs, err := n.Storage.GetLinkedChatIDs()
	if err != nil {
		log.Printf("ERROR: Failed to load linked chats for broadcast: %v", err)
		return
	}

	text := fmt.Sprintf("%s\n\n%s", notification.Title, notification.Message)
	delivered := 0
	for _, chatID := range chatIDs {
		if _, err := n.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			log.Printf("ERROR: Failed to deliver notification %s to chat %d: %v", notification.ID, chatID, err)
			continue
		}
		delivered++
	}
	log.Printf("Notification %s delivered to %d/%d chats", notification.ID, delivered, len(chatIDs))
}

func (n *TelegramNotifier) reply(chatID int64, text string) {
	if _, err := n.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send reply to chat %d: %v", chatID, err)
	}
}
