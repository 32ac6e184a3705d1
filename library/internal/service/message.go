package service

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/library/internal/repository"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SendToAdmin delivers a student's message to the first registered admin.
func (s *Service) SendToAdmin(ctx context.Context, from uuid.UUID, content string) (model.Message, error) {
	admin, err := s.repo.FirstUserWithRole(ctx, auth.RoleAdmin)
	if err != nil {
		return model.Message{}, errors.Wrap(err, "admin")
	}
	msg := s.newMessage(from, admin.ID, content)
	if err = s.repo.CreateMessages(ctx, msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// Reply answers a message by sending it back to its original sender.
func (s *Service) Reply(ctx context.Context, from, messageID uuid.UUID, content string) (model.Message, error) {
	orig, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return model.Message{}, err
	}
	msg := s.newMessage(from, orig.SenderID, content)
	msg.IsReply = true
	msg.RepliedTo = &orig.ID
	if err = s.repo.CreateMessages(ctx, msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

func (s *Service) SendToAll(ctx context.Context, from uuid.UUID, content string) (int, error) {
	students, err := s.repo.ListUsers(ctx, auth.RoleStudent)
	if err != nil {
		return 0, err
	}
	if len(students) == 0 {
		return 0, errors.Wrap(errs.ErrNotFound, "students")
	}
	msgs := make([]model.Message, 0, len(students))
	for _, st := range students {
		msgs = append(msgs, s.newMessage(from, st.ID, content))
	}
	if err = s.repo.CreateMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

func (s *Service) SendToStudent(ctx context.Context, from, studentID uuid.UUID, content string) (model.Message, error) {
	if _, err := s.student(ctx, s.repo, studentID); err != nil {
		return model.Message{}, err
	}
	msg := s.newMessage(from, studentID, content)
	if err := s.repo.CreateMessages(ctx, msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

func (s *Service) Inbox(ctx context.Context, userID uuid.UUID) ([]model.MessageView, error) {
	return s.repo.ListMessages(ctx, repository.MessageFilter{Participant: &userID})
}

// Received lists messages addressed to the user by someone else, newest first.
func (s *Service) Received(ctx context.Context, userID uuid.UUID) ([]model.MessageView, error) {
	return s.repo.ListMessages(ctx, repository.MessageFilter{
		ReceiverID:    &userID,
		ExcludeSender: &userID,
		NewestFirst:   true,
	})
}

func (s *Service) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMessage(ctx, id)
}

func (s *Service) newMessage(from, to uuid.UUID, content string) model.Message {
	return model.Message{
		ID:         uuid.New(),
		SenderID:   from,
		ReceiverID: to,
		Content:    content,
		CreatedAt:  s.now(),
	}
}
