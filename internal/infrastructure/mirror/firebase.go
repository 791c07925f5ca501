package mirror

import (
	"context"
	"fmt"
	"sort"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

type FirebaseConfig struct {
	DatabaseURL     string
	CredentialsFile string
	PollInterval    time.Duration
}

// FirebaseMirror mirrors to a Firebase Realtime Database. The Admin SDK has
// no push listeners, so subscriptions poll.
type FirebaseMirror struct {
	client       *db.Client
	pollInterval time.Duration
	log          logrus.FieldLogger
}

func NewFirebase(ctx context.Context, cfg FirebaseConfig, log logrus.FieldLogger) (*FirebaseMirror, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase database: %w", err)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FirebaseMirror{client: client, pollInterval: interval, log: log}, nil
}

func (f *FirebaseMirror) Enabled() bool { return true }

func (f *FirebaseMirror) SyncUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return nil
	}
	if err := f.client.NewRef(usersPath(user.ID)).Set(ctx, user.Public()); err != nil {
		return fmt.Errorf("sync user %s: %w", user.ID, err)
	}
	return nil
}

func (f *FirebaseMirror) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user *domain.User
	if err := f.client.NewRef(usersPath(userID)).Get(ctx, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

func (f *FirebaseMirror) ListenToUsers(ctx context.Context, fn func([]domain.User)) Unsubscribe {
	fetch := func(ctx context.Context) ([]domain.User, error) {
		var node map[string]domain.User
		if err := f.client.NewRef("users").Get(ctx, &node); err != nil {
			return nil, err
		}
		users := make([]domain.User, 0, len(node))
		for _, u := range node {
			users = append(users, u)
		}
		sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
		return users, nil
	}
	return poll(ctx, f.pollInterval, f.log, fetch, func(users []domain.User) {
		if len(users) > 0 {
			fn(users)
		}
	})
}

func (f *FirebaseMirror) SendMatchRequest(ctx context.Context, match domain.Match) error {
	if err := f.client.NewRef(matchPath(match.PairKey)).Set(ctx, match.Stored()); err != nil {
		return fmt.Errorf("send match %s: %w", match.PairKey, err)
	}
	return nil
}

func (f *FirebaseMirror) UpdateMatchStatus(ctx context.Context, pairKey string, status domain.MatchStatus) error {
	ref := f.client.NewRef(matchPath(pairKey))
	if status == domain.MatchDeclined {
		if err := ref.Delete(ctx); err != nil {
			return fmt.Errorf("delete match %s: %w", pairKey, err)
		}
		return nil
	}
	if err := ref.Child("status").Set(ctx, status); err != nil {
		return fmt.Errorf("update match %s: %w", pairKey, err)
	}
	return nil
}

func (f *FirebaseMirror) ListenToMatches(ctx context.Context, userID string, fn func([]domain.Match)) Unsubscribe {
	fetch := func(ctx context.Context) ([]domain.Match, error) {
		matches := []domain.Match{}
		for _, field := range []string{"sender_id", "receiver_id"} {
			var node map[string]domain.Match
			if err := f.client.NewRef("matches").OrderByChild(field).EqualTo(userID).Get(ctx, &node); err != nil {
				return nil, err
			}
			for _, m := range node {
				matches = append(matches, m)
			}
		}
		sortMatches(matches)
		return matches, nil
	}
	return poll(ctx, f.pollInterval, f.log, fetch, fn)
}

func (f *FirebaseMirror) SendMessage(ctx context.Context, chatID string, message domain.ChatMessage) error {
	if _, err := f.client.NewRef(chatPath(chatID)).Push(ctx, message); err != nil {
		return fmt.Errorf("push message to %s: %w", chatID, err)
	}
	return nil
}

func (f *FirebaseMirror) ListenToChat(ctx context.Context, chatID string, fn func([]domain.ChatMessage)) Unsubscribe {
	fetch := func(ctx context.Context) ([]domain.ChatMessage, error) {
		var node map[string]domain.ChatMessage
		if err := f.client.NewRef(chatPath(chatID)).Get(ctx, &node); err != nil {
			return nil, err
		}
		return orderedByPushKey(node), nil
	}
	return poll(ctx, f.pollInterval, f.log, fetch, fn)
}

// orderedByPushKey relies on push ids sorting chronologically.
func (f *FirebaseMirror) Clear(ctx context.Context) error {
	for _, node := range []string{"users", "matches", "chats"} {
		if err := f.client.NewRef(node).Delete(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", node, err)
		}
	}
	return nil
}

func orderedByPushKey(node map[string]domain.ChatMessage) []domain.ChatMessage {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]domain.ChatMessage, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, node[k])
	}
	return messages
}
