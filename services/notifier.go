package services

import (
	"context"
	"errors"
	"fmt"

	"outfitapi/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Notifier interface {
	Notify(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// FirebaseNotifier pushes through FCM to every active token of a user.
type FirebaseNotifier struct {
	app *firebase.App
	db  *gorm.DB
}

func NewFirebaseNotifier(app *firebase.App, db *gorm.DB) *FirebaseNotifier {
	return &FirebaseNotifier{app: app, db: db}
}

func stringMapToInterfaceMap(stringMap map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(stringMap))
	for key, value := range stringMap {
		out[key] = value
	}
	return out
}

func buildMessage(token models.UserPushToken, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{Title: title, Body: body},
		APNS: &messaging.APNSConfig{
			FCMOptions: &messaging.APNSFCMOptions{AnalyticsLabel: "outfit"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: title, Body: body},
					Sound: "default",
				},
				CustomData: stringMapToInterfaceMap(data),
			},
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Priority:  messaging.AndroidNotificationPriority(messaging.PriorityHigh),
				ChannelID: "outfit-suggestions",
			},
			Data: data,
		},
		Data:  data,
		Token: token.Token,
	}
}

func (n *FirebaseNotifier) Notify(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	var tokens []models.UserPushToken
	err := n.db.WithContext(ctx).Where("user_account_id = ? AND active = true", userID).Find(&tokens).Error
	if err != nil {
		return fmt.Errorf("load push tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	client, err := n.app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("init messaging client: %w", err)
	}
	messages := make([]*messaging.Message, len(tokens))
	for i, token := range tokens {
		messages[i] = buildMessage(token, title, body, data)
	}
	resp, err := client.SendEach(ctx, messages)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}

	var stale []uint
	for i, r := range resp.Responses {
		if r.Success {
			continue
		}
		if messaging.IsUnregistered(r.Error) {
			stale = append(stale, tokens[i].ID)
			continue
		}
		log.Ctx(ctx).Warn().Err(r.Error).Uint("user_id", userID).Msg("push delivery failed")
	}
	if len(stale) > 0 {
		n.db.WithContext(ctx).Model(&models.UserPushToken{}).Where("id IN ?", stale).Update("active", false)
	}
	if resp.SuccessCount == 0 {
		return errors.New("push delivered to no device")
	}
	return nil
}
