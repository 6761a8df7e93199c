package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "no-reply@acc.example"}

	err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Hi", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"no-reply@acc.example"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@x.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))
}

func TestSMTPSender_DialError(t *testing.T) {
	s := &SMTPSender{dialer: &fakeDialer{err: errors.New("connection refused")}, from: "f@x"}

	err := s.Send(context.Background(), Message{To: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "f@x"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@x.com"}), context.Canceled)
	assert.Empty(t, d.sent)
}

func TestNewSMTPSender(t *testing.T) {
	s := NewSMTPSender("smtp.gmail.com", 587, "u", "p", "from@x")
	require.NotNil(t, s.dialer)
	assert.Equal(t, "from@x", s.from)
}
