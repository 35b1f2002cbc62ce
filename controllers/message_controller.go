package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/services"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
	ListingID  *uint  `json:"listing_id" binding:"omitempty"`
}

// MarkReadRequest represents the request body for marking messages read
type MarkReadRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// respondMessageError maps service errors to the API envelope
func respondMessageError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
			},
		})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    strings.ToUpper(notFoundErr.Resource) + "_NOT_FOUND",
				"message": notFoundErr.Error(),
			},
		})
		return
	}

	var authErr *services.AuthorizationError
	if errors.As(err, &authErr) {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": authErr.Message,
			},
		})
		return
	}

	// Anything else is a storage failure the caller may retry
	c.PureJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "A storage error occurred, please retry",
		},
	})
}

// SendMessage handles POST /api/v1/messages - sends a message to another user
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Parse request body
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// The sender is always the authenticated caller, never client-supplied
	svc := services.NewMessageService(config.GetDB())
	message, err := svc.Send(user.ID, req.ReceiverID, req.ListingID, req.Body)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListConversations handles GET /api/v1/conversations - the caller's inbox,
// one entry per counterparty with the last message and unread count
func ListConversations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	svc := services.NewMessageService(config.GetDB())
	summaries, err := svc.Conversations(user.ID)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// GetThread handles GET /api/v1/conversations/:userId - the ordered message
// history with one counterparty, optionally scoped by listing_id and paged
// with limit/cursor query parameters
func GetThread(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	counterpartyID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Counterparty id must be an integer",
			},
		})
		return
	}

	var listingID *uint
	if raw := c.Query("listing_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.PureJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "listing_id must be an integer",
				},
			})
			return
		}
		id := uint(value)
		listingID = &id
	}

	var cursor *services.ThreadCursor
	if raw := c.Query("cursor"); raw != "" {
		cursor, err = services.ParseThreadCursor(raw)
		if err != nil {
			respondMessageError(c, err)
			return
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	svc := services.NewMessageService(config.GetDB())
	messages, next, err := svc.Thread(user.ID, uint(counterpartyID), listingID, cursor, limit)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"data":    messages,
	}
	if next != nil {
		response["next_cursor"] = next.Encode()
	}
	c.PureJSON(http.StatusOK, response)
}

// MarkMessagesRead handles PUT /api/v1/messages/read - marks received
// messages as read. Only the receiver of a message may mark it.
func MarkMessagesRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewMessageService(config.GetDB())
	if err := svc.MarkRead(user.ID, req.MessageIDs); err != nil {
		respondMessageError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Messages marked as read",
	})
}
