package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"teeup-backend-go/internal/db"
	"teeup-backend-go/internal/models"
	"teeup-backend-go/pkg/database"
)

var (
	ErrSelfFriendRequest       = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestExists     = errors.New("a friend request between these users already exists")
	ErrAlreadyFriends          = errors.New("users are already friends")
	ErrFriendRequestNotFound   = errors.New("friend request not found")
	ErrNotRequestRecipient     = errors.New("only the recipient can answer a friend request")
	ErrFriendRequestNotPending = errors.New("friend request is no longer pending")
	ErrFriendshipNotFound      = errors.New("friendship not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrSelfMessage             = errors.New("cannot send a message to yourself")
	ErrEmptyMessage            = errors.New("message text cannot be empty")
	ErrInvalidAvailability     = errors.New("unknown weekend availability")
	ErrEmptyDeviceToken        = errors.New("device token cannot be empty")
)

// socialService implements the SocialService interface.
type socialService struct {
	users         db.UserRepository
	friendships   db.FriendshipRepository
	requests      db.FriendRequestRepository
	conversations db.ConversationRepository
	statuses      db.WeekendStatusRepository
	graph         FriendGraph
	labels        *LabelTable
	logger        *zap.Logger
	now           func() time.Time
}

// SocialRepositories groups the repositories the social service writes through.
type SocialRepositories struct {
	Users          db.UserRepository
	Friendships    db.FriendshipRepository
	FriendRequests db.FriendRequestRepository
	Conversations  db.ConversationRepository
	WeekendStatus  db.WeekendStatusRepository
}

// NewSocialService creates a new SocialService.
func NewSocialService(repos SocialRepositories, labels *LabelTable, logger *zap.Logger) SocialService {
	if labels == nil {
		labels = DefaultLabels()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &socialService{
		users:         repos.Users,
		friendships:   repos.Friendships,
		requests:      repos.FriendRequests,
		conversations: repos.Conversations,
		statuses:      repos.WeekendStatus,
		graph:         NewFriendGraph(repos.Friendships),
		labels:        labels,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SendFriendRequest creates a pending request from senderID to recipientID.
// The duplicate check and the write are not atomic, so two concurrent requests for the same pair can both succeed.
func (s *socialService) SendFriendRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfFriendRequest
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient '%s'", ErrUserNotFound, recipientID)
		}
		return nil, fmt.Errorf("failed to look up recipient '%s': %w", recipientID, err)
	}

	if _, err := s.friendships.Get(ctx, senderID, recipientID); err == nil {
		return nil, ErrAlreadyFriends
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing friendship: %w", err)
	}

	existing, err := s.requests.ListBetween(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing friend requests: %w", err)
	}
	for _, r := range existing {
		if r.Status == models.FriendRequestPending {
			return nil, ErrFriendRequestExists
		}
	}

	req := &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.FriendRequestPending,
		SentAt:      s.now(),
	}
	if _, err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("Friend request sent", zap.String("requestID", req.ID), zap.String("senderID", senderID), zap.String("recipientID", recipientID))
	return req, nil
}

// AcceptFriendRequest creates the friendship edge and then marks the request accepted.
// An edge left behind by a failed status update is reused when the accept is retried.
func (s *socialService) AcceptFriendRequest(ctx context.Context, userID, requestID string) (*models.Friendship, error) {
	req, err := s.answerableRequest(ctx, userID, requestID, models.FriendRequestAccepted)
	if err != nil {
		return nil, err
	}

	friendship, err := s.friendships.Create(ctx, req.SenderID, req.RecipientID)
	if errors.Is(err, database.ErrAlreadyExists) {
		friendship, err = s.friendships.Get(ctx, req.SenderID, req.RecipientID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStatus(ctx, requestID, models.FriendRequestAccepted); err != nil {
		return nil, err
	}
	s.logger.Info("Friend request accepted", zap.String("requestID", requestID), zap.String("friendshipID", friendship.ID))
	return friendship, nil
}

// DeclineFriendRequest marks the request declined.
func (s *socialService) DeclineFriendRequest(ctx context.Context, userID, requestID string) error {
	if _, err := s.answerableRequest(ctx, userID, requestID, models.FriendRequestDeclined); err != nil {
		return err
	}
	if err := s.requests.UpdateStatus(ctx, requestID, models.FriendRequestDeclined); err != nil {
		return err
	}
	s.logger.Info("Friend request declined", zap.String("requestID", requestID))
	return nil
}

func (s *socialService) answerableRequest(ctx context.Context, userID, requestID string, to models.FriendRequestStatus) (*models.FriendRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrFriendRequestNotFound, requestID)
		}
		return nil, err
	}
	if req.RecipientID != userID {
		return nil, ErrNotRequestRecipient
	}
	if !req.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: status is '%s'", ErrFriendRequestNotPending, req.Status)
	}
	return req, nil
}

func (s *socialService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	return s.graph.FriendIDs(ctx, userID)
}

func (s *socialService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	if _, err := s.friendships.Get(ctx, userID, friendID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrFriendshipNotFound
		}
		return err
	}
	if err := s.friendships.Delete(ctx, userID, friendID); err != nil {
		return err
	}
	s.logger.Info("Friendship removed", zap.String("userID", userID), zap.String("friendID", friendID))
	return nil
}

// SendMessage stores the message under the pair's canonical conversation.
func (s *socialService) SendMessage(ctx context.Context, senderID, receiverID, text string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  s.now(),
	}
	convoID := models.CanonicalID(senderID, receiverID)
	id, err := s.conversations.AddMessage(ctx, convoID, msg)
	if err != nil {
		if id == "" {
			return nil, err
		}
		// The message exists; only the preview update failed.
		s.logger.Warn("Message stored without conversation preview", zap.String("conversationID", convoID), zap.Error(err))
	}
	return msg, nil
}

// SetWeekendStatus replaces the caller's status. An omitted visibility flag means visible.
func (s *socialService) SetWeekendStatus(ctx context.Context, userID string, req models.SetWeekendStatusRequest) (*models.WeekendStatus, error) {
	if !s.labels.Known(req.Status) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidAvailability, req.Status)
	}
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	status := &models.WeekendStatus{
		UserID:     userID,
		Status:     req.Status,
		IsVisible:  visible,
		CourseName: req.CourseName,
		Companions: req.Companions,
		TimeSlots:  req.TimeSlots,
		UpdatedAt:  s.now(),
	}
	if err := s.statuses.Set(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *socialService) ClearWeekendStatus(ctx context.Context, userID string) error {
	return s.statuses.Delete(ctx, userID)
}

func (s *socialService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyDeviceToken
	}
	return s.users.SetDeviceToken(ctx, userID, token)
}

func (s *socialService) UpdatePreferences(ctx context.Context, userID string, req models.UpdatePreferencesRequest) error {
	return s.users.UpdatePreferences(ctx, userID, req)
}
