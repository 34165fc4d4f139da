package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"teeup-backend-go/internal/models"
)

const (
	fallbackSenderName = "Someone"
	fallbackOwnerName  = "A friend"

	// MaxMessagePreview is the number of characters of a message shown in its notification body.
	MaxMessagePreview = 100
	previewEllipsis   = "..."
)

// triggerService implements the TriggerService interface.
type triggerService struct {
	dispatcher NotificationDispatcher
	directory  UserDirectory
	graph      FriendGraph
	labels     *LabelTable
	logger     *zap.Logger
}

// NewTriggerService creates a new TriggerService. A nil label table selects DefaultLabels.
func NewTriggerService(dispatcher NotificationDispatcher, directory UserDirectory, graph FriendGraph, labels *LabelTable, logger *zap.Logger) TriggerService {
	if labels == nil {
		labels = DefaultLabels()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &triggerService{
		dispatcher: dispatcher,
		directory:  directory,
		graph:      graph,
		labels:     labels,
		logger:     logger,
	}
}

func (s *triggerService) OnFriendRequestCreated(ctx context.Context, evt models.FriendRequestCreated) DeliveryResult {
	senderName := s.directory.DisplayName(ctx, evt.Request.SenderID, fallbackSenderName)
	return s.dispatcher.Notify(ctx, Notification{
		RecipientID: evt.Request.RecipientID,
		Title:       "New Friend Request",
		Body:        fmt.Sprintf("%s sent you a friend request", senderName),
		Category:    CategoryFriendRequest,
		Data:        map[string]string{"requestId": evt.RequestID},
	})
}

func (s *triggerService) OnMessageCreated(ctx context.Context, evt models.MessageCreated) DeliveryResult {
	senderName := s.directory.DisplayName(ctx, evt.Message.SenderID, fallbackSenderName)
	return s.dispatcher.Notify(ctx, Notification{
		RecipientID: evt.Message.ReceiverID,
		Title:       senderName,
		Body:        TruncatePreview(evt.Message.Text),
		Category:    CategoryMessage,
		Data: map[string]string{
			"conversationId": evt.ConversationID,
			"senderId":       evt.Message.SenderID,
		},
	})
}

func (s *triggerService) OnWeekendStatusWritten(ctx context.Context, evt models.WeekendStatusWritten) []DeliveryResult {
	log := s.logger.With(zap.String("statusUserID", evt.UserID))
	if evt.Deleted() {
		log.Debug("Weekend status deleted, nothing to broadcast")
		return nil
	}
	if !evt.Status.IsVisible {
		log.Debug("Weekend status hidden, nothing to broadcast")
		return nil
	}

	ownerName := s.directory.DisplayName(ctx, evt.UserID, fallbackOwnerName)
	friends, err := s.graph.FriendIDs(ctx, evt.UserID)
	if err != nil {
		log.Error("Failed to resolve friends for weekend status broadcast", zap.Error(err))
		return nil
	}
	if len(friends) == 0 {
		return []DeliveryResult{}
	}

	title := fmt.Sprintf("%s updated their weekend status", ownerName)
	body := s.labels.Label(evt.Status.Status)

	results := make([]DeliveryResult, len(friends))
	var g errgroup.Group
	for i, friendID := range friends {
		g.Go(func() error {
			results[i] = s.dispatcher.Notify(ctx, Notification{
				RecipientID: friendID,
				Title:       title,
				Body:        body,
				Category:    CategoryStatusChange,
				Data:        map[string]string{"statusUserId": evt.UserID},
			})
			return nil
		})
	}
	_ = g.Wait()

	log.Info("Weekend status broadcast complete", zap.Int("recipients", len(results)))
	return results
}

// TruncatePreview cuts text to MaxMessagePreview characters and marks the cut with an ellipsis.
func TruncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessagePreview {
		return text
	}
	return string(runes[:MaxMessagePreview]) + previewEllipsis
}
