package smtp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/petnfc-api/internal/domain"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func owner() *domain.User {
	return &domain.User{UserID: "u1", Email: "olive@example.com", FirstName: "Olive"}
}

func TestSendOTP_RendersCode(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", "olive@example.com", subjectOTP, mock.AnythingOfType("string")).Return(nil)
	n, err := NewNotifier(ml)
	require.NoError(t, err)

	require.NoError(t, n.SendOTP(context.Background(), owner(), "042917"))

	body := ml.Calls[0].Arguments.String(2)
	assert.Contains(t, body, "Hi Olive,")
	assert.Contains(t, body, "042917")
}

func TestSendScanNotification_RendersLinkAndEscapesName(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", "olive@example.com", subjectScan, mock.AnythingOfType("string")).Return(nil)
	n, err := NewNotifier(ml)
	require.NoError(t, err)

	link := "https://www.google.com/maps?q=-33.868800,151.209300"
	at := domain.Coordinates{Latitude: -33.8688, Longitude: 151.2093}
	require.NoError(t, n.SendScanNotification(context.Background(), owner(), "<Rex>", at, link))

	body := ml.Calls[0].Arguments.String(2)
	assert.Contains(t, body, `href="https://www.google.com/maps?q=-33.868800,151.209300"`)
	assert.Contains(t, body, "-33.868800, 151.209300")
	assert.Contains(t, body, "&lt;Rex&gt;")
	assert.False(t, strings.Contains(body, "<Rex>"))
}

func TestSend_MailerErrorWrapped(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	n, err := NewNotifier(ml)
	require.NoError(t, err)

	err = n.SendOTP(context.Background(), owner(), "000000")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSend_CancelledContextSkipsMailer(t *testing.T) {
	ml := &mockMailer{}
	n, err := NewNotifier(ml)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SendOTP(ctx, owner(), "000000"), context.Canceled)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildMessage_HTMLHeaders(t *testing.T) {
	msg := string(buildMessage("support@petnfc.com.au", "o@example.com", "Hi", "<p>x</p>"))
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>x</p>"))
}
