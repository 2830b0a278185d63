package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"concierge-be/internal/config"
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const ActivityTopic = "activity_posted"

// IActivityService polls the platform activity feed and republishes new
// items onto the in-process bus so the consumer can fan them out to
// connected clients.
type IActivityService interface {
	Start(ctx context.Context)
}

type activityService struct {
	cfg    config.PlatformConfig
	pubSub *gochannel.GoChannel
	client *http.Client
	logger logger.ILogger

	seen map[string]struct{}
}

func NewActivityService(cfg config.PlatformConfig, pubSub *gochannel.GoChannel, log logger.ILogger) IActivityService {
	return &activityService{
		cfg:    cfg,
		pubSub: pubSub,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: log,
		seen:   make(map[string]struct{}),
	}
}

func (s *activityService) Start(ctx context.Context) {
	if s.cfg.ActivityURL == "" {
		s.logger.Info("ActivityService", "No activity feed configured, poller disabled", nil)
		return
	}

	go func() {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		// Prime the seen set so a restart doesn't replay the whole feed.
		if items, err := s.fetch(ctx); err == nil {
			for _, item := range items {
				s.seen[item.Id] = struct{}{}
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()

	s.logger.Info("ActivityService", "Activity feed poller started", map[string]interface{}{
		"url":      s.cfg.ActivityURL,
		"interval": s.cfg.PollInterval.String(),
	})
}

func (s *activityService) poll(ctx context.Context) {
	items, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("ActivityService", "Activity fetch failed", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, item := range items {
		if _, ok := s.seen[item.Id]; ok {
			continue
		}
		s.seen[item.Id] = struct{}{}

		payload, err := json.Marshal(item)
		if err != nil {
			continue
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := s.pubSub.Publish(ActivityTopic, msg); err != nil {
			s.logger.Error("ActivityService", "Failed to publish activity", map[string]interface{}{"error": err})
		}
	}
}

func (s *activityService) fetch(ctx context.Context) ([]dto.ActivityItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.ActivityURL, nil)
	if err != nil {
		return nil, err
	}
	if s.cfg.ServiceKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activity feed returned %d", resp.StatusCode)
	}

	var items []dto.ActivityItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode activity feed: %w", err)
	}
	return items, nil
}
