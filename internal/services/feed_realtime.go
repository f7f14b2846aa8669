package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
)

// FeedChannel is the Redis pub/sub channel for published-nugget events.
const FeedChannel = "feed:articles"

// FeedEvent is the payload broadcast over Redis and WebSocket when a nugget
// is published.
type FeedEvent struct {
	Type       string    `json:"type"` // "article_published"
	ArticleID  string    `json:"article_id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt,omitempty"`
	AuthorName string    `json:"author_name,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventTypeArticlePublished is the only event type the feed gateway emits today.
const EventTypeArticlePublished = "article_published"

// FeedHub fans Redis feed events out to local WebSocket connections.
type FeedHub struct {
	mu          sync.RWMutex
	subscribers map[chan FeedEvent]struct{}
}

var (
	feedHub      = &FeedHub{subscribers: make(map[chan FeedEvent]struct{})}
	redisStarted sync.Once
)

// SubscribeFeed registers a local subscriber. The returned func removes it.
func SubscribeFeed() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, 16)

	feedHub.mu.Lock()
	feedHub.subscribers[ch] = struct{}{}
	feedHub.mu.Unlock()

	unsubscribe := func() {
		feedHub.mu.Lock()
		if _, ok := feedHub.subscribers[ch]; ok {
			delete(feedHub.subscribers, ch)
			close(ch)
		}
		feedHub.mu.Unlock()
	}

	return ch, unsubscribe
}

// FanOutFeedEvent delivers an event to all local subscribers.
// Slow subscribers are skipped rather than blocking the fan-out.
func FanOutFeedEvent(event FeedEvent) {
	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()

	for ch := range feedHub.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// StartRedisFeedSubscriber ensures a single shared Redis listener per instance.
func StartRedisFeedSubscriber(ctx context.Context) {
	redisStarted.Do(func() {
		go runFeedSubscriber(ctx)
	})
}

func runFeedSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; feed subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, FeedChannel)
			defer pubsub.Close()

			log.Printf("✅ Feed Redis subscriber started (channel: %s)", FeedChannel)

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis feed subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event FeedEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal feed event: %v", err)
					continue
				}

				// Fan out to local connections
				FanOutFeedEvent(event)
			}
		}()
	}
}

// PublishFeedEvent publishes an event to Redis; called when a nugget goes public.
func PublishFeedEvent(ctx context.Context, event FeedEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return database.RedisClient.Publish(ctx, FeedChannel, data).Err()
}

// PublishArticleEvent builds and publishes the feed event for a freshly
// published article. Delivery is best-effort; failures are only logged.
func PublishArticleEvent(ctx context.Context, article *models.Article) {
	event := FeedEvent{
		Type:       EventTypeArticlePublished,
		ArticleID:  article.ID.Hex(),
		Title:      article.Title,
		Excerpt:    article.Excerpt,
		AuthorName: article.Author.Name,
		Categories: article.Categories,
	}
	if err := PublishFeedEvent(ctx, event); err != nil {
		log.Printf("failed to publish feed event for article %s: %v", article.ID.Hex(), err)
	}
}
