package mailservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendActivationEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:     mockMC,
		m:      mockMailer,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	s.SendActivationEmail()

	time.Sleep(1 * time.Second)

	assert.True(t, mockMailer.IsCalled(), "expected an email to be sent")
	assert.Equal(t, "test@example.com", mockMailer.GetEmail(), "expected email to be sent to the recipient")

	t.Cleanup(func() {
		s.Close()
	})
}
