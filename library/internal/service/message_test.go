package service_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestService_Messages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	st := f.addStudent(t, "tom")
	other := f.addStudent(t, "uma")

	_, err := f.svc.SendToAdmin(ctx, st.ID, "hello?")
	require.ErrorIs(t, err, errs.ErrNotFound, "no admin registered yet")

	admin := f.addAdmin(t, "root")
	question, err := f.svc.SendToAdmin(ctx, st.ID, "when is the library open?")
	require.NoError(t, err)
	require.Equal(t, admin.ID, question.ReceiverID)

	answer, err := f.svc.Reply(ctx, admin.ID, question.ID, "9 to 5")
	require.NoError(t, err)
	require.True(t, answer.IsReply)
	require.Equal(t, st.ID, answer.ReceiverID)
	require.Equal(t, question.ID, *answer.RepliedTo)

	n, err := f.svc.SendToAll(ctx, admin.ID, "closed on sunday")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = f.svc.SendToStudent(ctx, admin.ID, other.ID, "your book is overdue")
	require.NoError(t, err)
	_, err = f.svc.SendToStudent(ctx, admin.ID, admin.ID, "to myself")
	require.ErrorIs(t, err, errs.ErrNotFound)

	inbox, err := f.svc.Inbox(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	received, err := f.svc.Received(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, received, 2)
	for _, m := range received {
		require.Equal(t, admin.ID, m.SenderID)
		require.Equal(t, "root", *m.SenderName)
	}

	adminInbox, err := f.svc.Received(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, adminInbox, 1)

	require.NoError(t, f.svc.DeleteMessage(ctx, question.ID))
	require.ErrorIs(t, f.svc.DeleteMessage(ctx, question.ID), errs.ErrNotFound)
	_, err = f.svc.Reply(ctx, admin.ID, question.ID, "again")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
