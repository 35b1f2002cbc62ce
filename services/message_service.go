package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

// Thread page bounds. Clients may ask for less; never more.
const (
	DefaultThreadPageSize = 50
	MaxThreadPageSize     = 200
)

// ConversationPartner is the slice of a user safe to show to the people they
// talk to. The email and phone stay private, same as the public profile.
type ConversationPartner struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ConversationSummary is one row of a user's inbox: the other participant,
// the most recent message exchanged with them, and how many of their messages
// are still unread.
type ConversationSummary struct {
	Counterparty ConversationPartner `json:"counterparty"`
	LastMessage  models.Message      `json:"last_message"`
	UnreadCount  int64               `json:"unread_count"`
}

// ThreadCursor points just past a message in (created_at, id) order. The id
// component keeps paging stable when two messages share a timestamp.
type ThreadCursor struct {
	CreatedAt time.Time
	ID        uint
}

// Encode renders the cursor as an opaque token for clients.
func (c ThreadCursor) Encode() string {
	return fmt.Sprintf("%d:%d", c.CreatedAt.UnixNano(), c.ID)
}

// ParseThreadCursor decodes a token produced by Encode.
func ParseThreadCursor(token string) (*ThreadCursor, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return nil, &ValidationError{Message: "malformed cursor"}
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, &ValidationError{Message: "malformed cursor"}
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, &ValidationError{Message: "malformed cursor"}
	}
	return &ThreadCursor{CreatedAt: time.Unix(0, nanos), ID: uint(id)}, nil
}

// MessageService implements the conversation and messaging core on top of the
// relational message store. Every operation takes the acting user id as an
// explicit parameter so the service can be exercised without an HTTP request.
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a message service bound to the given database
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send validates and persists a new message from senderID to receiverID,
// optionally in the context of a listing. The message starts unread.
func (s *MessageService) Send(senderID, receiverID uint, listingID *uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Message: "message body must not be empty"}
	}
	if senderID == receiverID {
		return nil, &ValidationError{Message: "cannot send a message to yourself"}
	}

	// The receiver must exist before anything is written
	var receiver models.User
	if err := s.db.First(&receiver, receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "receiver"}
		}
		return nil, fmt.Errorf("failed to look up receiver: %w", err)
	}

	// Same for the listing context, when one is given
	if listingID != nil {
		var listing models.Listing
		if err := s.db.First(&listing, *listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "listing"}
			}
			return nil, fmt.Errorf("failed to look up listing: %w", err)
		}
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Body:       body,
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	// Load the sender relationship to return complete data
	if err := s.db.Preload("Sender").First(message, message.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load message details: %w", err)
	}

	return message, nil
}

// Thread returns the message history between viewerID and otherID in ascending
// (created_at, id) order, both directions included. When listingID is given,
// only messages tagged with that listing are returned. A non-nil cursor
// resumes after the message it points at; the returned cursor is non-nil when
// another page may exist.
func (s *MessageService) Thread(viewerID, otherID uint, listingID *uint, after *ThreadCursor, limit int) ([]models.Message, *ThreadCursor, error) {
	if limit <= 0 {
		limit = DefaultThreadPageSize
	}
	if limit > MaxThreadPageSize {
		limit = MaxThreadPageSize
	}

	query := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, otherID, otherID, viewerID)
	if listingID != nil {
		query = query.Where("listing_id = ?", *listingID)
	}
	if after != nil {
		query = query.Where("(created_at > ? OR (created_at = ? AND id > ?))",
			after.CreatedAt, after.CreatedAt, after.ID)
	}

	messages := make([]models.Message, 0, limit)
	if err := query.
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load thread: %w", err)
	}

	var next *ThreadCursor
	if len(messages) == limit {
		last := messages[len(messages)-1]
		next = &ThreadCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return messages, next, nil
}

// unreadRow is the scan target for the grouped unread-count query
type unreadRow struct {
	SenderID uint
	Total    int64
}

// Conversations derives the inbox for viewerID: one summary per distinct
// counterparty, most recent conversation first. Counterparties whose user
// record no longer exists are skipped so one broken reference cannot take
// down the whole list.
func (s *MessageService) Conversations(viewerID uint) ([]ConversationSummary, error) {
	// Distinct counterparties, resolved database-side. The raw query bypasses
	// the soft-delete scope, so it filters deleted rows itself.
	var counterpartyIDs []uint
	if err := s.db.Raw(`
		SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS counterparty_id
		FROM messages
		WHERE (sender_id = ? OR receiver_id = ?) AND deleted_at IS NULL`,
		viewerID, viewerID, viewerID).Scan(&counterpartyIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load counterparties: %w", err)
	}
	if len(counterpartyIDs) == 0 {
		return []ConversationSummary{}, nil
	}

	// Unread counts grouped by sender. Only messages received by the viewer
	// count toward unread.
	var unreadRows []unreadRow
	if err := s.db.Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS total").
		Where("receiver_id = ? AND is_read = ?", viewerID, false).
		Group("sender_id").
		Scan(&unreadRows).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	unreadBySender := make(map[uint]int64, len(unreadRows))
	for _, row := range unreadRows {
		unreadBySender[row.SenderID] = row.Total
	}

	// Resolve all counterparty user records in one query
	var users []models.User
	if err := s.db.Where("id IN ?", counterpartyIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve counterparties: %w", err)
	}
	userByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	summaries := make([]ConversationSummary, 0, len(counterpartyIDs))
	for _, counterpartyID := range counterpartyIDs {
		user, ok := userByID[counterpartyID]
		if !ok {
			// Deleted or otherwise unresolvable user; skip this conversation
			continue
		}

		// Most recent message in the pair. Highest id wins a timestamp tie.
		var last models.Message
		err := s.db.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				viewerID, counterpartyID, counterpartyID, viewerID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load last message: %w", err)
		}

		summaries = append(summaries, ConversationSummary{
			Counterparty: ConversationPartner{
				ID:        user.ID,
				Name:      user.Name,
				AvatarURL: user.AvatarURL,
			},
			LastMessage:  last,
			UnreadCount:  unreadBySender[counterpartyID],
		})
	}

	// Most recent conversation first
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage, summaries[j].LastMessage
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return summaries, nil
}

// MarkRead marks the given messages as read on behalf of viewerID. Only the
// receiver of a message may mark it read; if any named message is addressed
// to someone else the whole call fails before anything is written. Ids that
// do not exist and messages already read are both treated as no-ops.
func (s *MessageService) MarkRead(viewerID uint, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return &ValidationError{Message: "at least one message id is required"}
	}

	var messages []models.Message
	if err := s.db.Where("id IN ?", messageIDs).Find(&messages).Error; err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	toUpdate := make([]uint, 0, len(messages))
	for _, message := range messages {
		if message.ReceiverID != viewerID {
			return &AuthorizationError{Message: "only the receiver of a message may mark it read"}
		}
		if !message.IsRead {
			toUpdate = append(toUpdate, message.ID)
		}
	}
	if len(toUpdate) == 0 {
		return nil
	}

	if err := s.db.Model(&models.Message{}).
		Where("id IN ?", toUpdate).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}
