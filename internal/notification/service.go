// Package notification delivers alert notifications to operator channels
// (Slack, Discord, email, generic webhooks) via shoutrrr URLs. Delivery is
// fire-and-forget from the automation engine's point of view: the engine
// logs and swallows any error this package returns.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/seodeck/seodeck/internal/automation"
	"github.com/seodeck/seodeck/internal/datastore/entities"
	"go.uber.org/zap"
)

// Config holds notification settings.
type Config struct {
	Enabled bool
	// URLs are shoutrrr service URLs, e.g. "slack://token@channel" or
	// "generic+https://host/hook".
	URLs []string
	// MinSeverity drops notifications below this severity ("info" sends
	// everything).
	MinSeverity string
}

// Service sends alert notifications through a shoutrrr sender.
type Service struct {
	sender *router.ServiceRouter
	cfg    Config
	log    *zap.Logger
}

// NewService creates a notification service. A disabled config or an empty
// URL list yields a service whose Notify is a no-op.
func NewService(cfg Config, log *zap.Logger) (*Service, error) {
	s := &Service{cfg: cfg, log: log}
	if !cfg.Enabled || len(cfg.URLs) == 0 {
		return s, nil
	}
	sender, err := shoutrrr.CreateSender(cfg.URLs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification sender: %w", err)
	}
	s.sender = sender
	return s, nil
}

// Notify implements automation.Notifier.
func (s *Service) Notify(_ context.Context, rule *entities.AlertRule, event *entities.AlertEvent) error {
	if s.sender == nil {
		return nil
	}
	if severityRank(event.Severity) < severityRank(s.cfg.MinSeverity) {
		return nil
	}

	title := fmt.Sprintf("[%s] %s", strings.ToUpper(event.Severity), rule.Name)
	message := fmt.Sprintf("%s (client %d, observed value: %s)", event.Message, event.ClientID, event.Value)
	params := &types.Params{"title": title}

	var errs []error
	for _, err := range s.sender.Send(message, params) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification delivery: %w", errors.Join(errs...))
	}
	s.log.Debug("alert notification sent",
		zap.Uint("rule_id", rule.ID),
		zap.Uint("event_id", event.ID))
	return nil
}

func severityRank(severity string) int {
	switch severity {
	case automation.SeverityCritical:
		return 2
	case automation.SeverityWarning:
		return 1
	default:
		return 0
	}
}
