package push

import (
	"errors"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/net/context"
	"google.golang.org/api/option"
)

// ItfPush dispatches offline push notifications to a registered device
// token. Delivery is best-effort; callers log failures and move on.
type ItfPush interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type fcmClient struct {
	client *messaging.Client
}

func New() (ItfPush, error) {
	credentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_FILE not set")
	}

	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, err
	}

	return &fcmClient{client: client}, nil
}

func (f *fcmClient) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return errors.New("empty device token")
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: "farmwatch_notifications",
				Priority:  messaging.PriorityHigh,
				Sound:     "default",
			},
		},
	}

	_, err := f.client.Send(ctx, message)
	return err
}
