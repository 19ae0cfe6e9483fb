package notifications

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mazadlive/internal/client/api"
	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

var testNow = time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC)

func newTestAggregator(source ChatSource) *Aggregator {
	return NewAggregator(source, clockwork.NewFakeClockAt(testNow), nil)
}

func TestAggregate_TwoChats(t *testing.T) {
	chatCreated := testNow.AddDate(0, 0, -10)
	lastMessage := testNow.Add(-time.Hour)

	client := &api.ClientAPIMock{
		ListChatsFunc: func(ctx context.Context, accessToken, userID string) ([]pkgapi.Chat, error) {
			assert.Equal(t, "token", accessToken)
			assert.Equal(t, "u1", userID)
			return []pkgapi.Chat{
				{ID: "A", CreatedAt: chatCreated, Users: []pkgapi.ChatUser{
					{ID: "u1", FirstName: "Amine"},
					{ID: "s1", FirstName: "Karim", LastName: "B.", Avatar: "https://cdn/karim.png"},
				}},
				{ID: "B", CreatedAt: chatCreated, Users: []pkgapi.ChatUser{
					{ID: "s2", Username: "vendeur42"},
					{ID: "u1"},
				}},
			}, nil
		},
		ListMessagesFunc: func(ctx context.Context, accessToken, chatID string) ([]pkgapi.Message, error) {
			if chatID == "B" {
				return nil, nil
			}
			return []pkgapi.Message{
				{ID: "m1", Reciver: "u1", Sender: "s1", Message: "Bonjour", CreatedAt: testNow.Add(-3 * time.Hour)},
				{ID: "m2", Reciver: "s1", Sender: "u1", Message: "Oui ?", CreatedAt: testNow.Add(-2 * time.Hour)},
				{ID: "m3", Reciver: "u1", Sender: "s1", Message: "Le lot est disponible", CreatedAt: lastMessage},
			}, nil
		},
	}

	result, err := newTestAggregator(client).Aggregate(context.Background(), "u1", "token")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	a := result.Items[0]
	assert.Equal(t, "A", a.ID)
	assert.Equal(t, 2, a.Unread)
	assert.Equal(t, "Le lot est disponible", a.Message)
	assert.Equal(t, "Karim B.", a.Name)
	assert.Equal(t, "https://cdn/karim.png", a.Avatar)
	assert.Equal(t, "13:30", a.Time)

	b := result.Items[1]
	assert.Equal(t, "B", b.ID)
	assert.Equal(t, 0, b.Unread)
	assert.Equal(t, "", b.Message)
	assert.Equal(t, "vendeur42", b.Name)
	assert.Equal(t, "06/10/26", b.Time, "no messages falls back to chat creation time")

	assert.Equal(t, 2, result.TotalUnread)
}

func TestAggregate_PartialFailure(t *testing.T) {
	client := &api.ClientAPIMock{
		ListChatsFunc: func(ctx context.Context, accessToken, userID string) ([]pkgapi.Chat, error) {
			return []pkgapi.Chat{
				{ID: "ok", Users: []pkgapi.ChatUser{{ID: "s1"}}},
				{ID: "broken", Users: []pkgapi.ChatUser{{ID: "s2"}}},
			}, nil
		},
		ListMessagesFunc: func(ctx context.Context, accessToken, chatID string) ([]pkgapi.Message, error) {
			if chatID == "broken" {
				return nil, errors.New("connection reset")
			}
			return []pkgapi.Message{{Reciver: "u1", Message: "Salut", CreatedAt: testNow}}, nil
		},
	}

	result, err := newTestAggregator(client).Aggregate(context.Background(), "u1", "token")
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	assert.Equal(t, 1, result.Items[0].Unread)
	assert.Equal(t, "Salut", result.Items[0].Message)

	assert.Equal(t, "broken", result.Items[1].ID)
	assert.Equal(t, 0, result.Items[1].Unread)
	assert.Equal(t, "", result.Items[1].Message)

	assert.Equal(t, 1, result.TotalUnread)
}

func TestAggregate_ChatListFailure(t *testing.T) {
	client := &api.ClientAPIMock{
		ListChatsFunc: func(ctx context.Context, accessToken, userID string) ([]pkgapi.Chat, error) {
			return nil, &api.StatusError{StatusCode: 500}
		},
	}

	result, err := newTestAggregator(client).Aggregate(context.Background(), "u1", "token")
	require.Error(t, err)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.TotalUnread)
	assert.Empty(t, client.ListMessagesCalls())
}

func TestAggregate_FanOutIsConcurrent(t *testing.T) {
	const chats = 12

	var inflight, peak atomic.Int32
	release := make(chan struct{})

	client := &api.ClientAPIMock{
		ListChatsFunc: func(ctx context.Context, accessToken, userID string) ([]pkgapi.Chat, error) {
			list := make([]pkgapi.Chat, chats)
			for i := range list {
				list[i] = pkgapi.Chat{ID: string(rune('a' + i))}
			}
			return list, nil
		},
		ListMessagesFunc: func(ctx context.Context, accessToken, chatID string) ([]pkgapi.Message, error) {
			n := inflight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			// Все запросы должны стартовать до того, как хоть один завершится
			if n == chats {
				close(release)
			}
			select {
			case <-release:
			case <-time.After(2 * time.Second):
			}
			inflight.Add(-1)
			return nil, nil
		},
	}

	result, err := newTestAggregator(client).Aggregate(context.Background(), "u1", "token")
	require.NoError(t, err)
	assert.Len(t, result.Items, chats)
	assert.Equal(t, int32(chats), peak.Load())
}

func TestCounterpart(t *testing.T) {
	users := []pkgapi.ChatUser{{ID: "u1"}, {ID: "s1"}}

	peer, ok := counterpart(users, "u1")
	require.True(t, ok)
	assert.Equal(t, "s1", peer.ID)

	// Только сам пользователь - берется первый
	peer, ok = counterpart([]pkgapi.ChatUser{{ID: "u1"}}, "u1")
	require.True(t, ok)
	assert.Equal(t, "u1", peer.ID)

	_, ok = counterpart(nil, "u1")
	assert.False(t, ok)
}
