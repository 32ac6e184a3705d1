package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	SenderID   uuid.UUID  `json:"senderId" db:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiverId" db:"receiver_id"`
	Content    string     `json:"content" db:"content"`
	IsReply    bool       `json:"isReply" db:"is_reply"`
	RepliedTo  *uuid.UUID `json:"repliedTo,omitempty" db:"replied_to"`
	CreatedAt  time.Time  `json:"timestamp" db:"created_at"`
}

type MessageView struct {
	Message
	SenderName   *string `json:"senderName" db:"sender_name"`
	ReceiverName *string `json:"receiverName" db:"receiver_name"`
}

type MessageContent struct {
	Content string `json:"content" validate:"required"`
}
