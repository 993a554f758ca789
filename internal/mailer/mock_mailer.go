package mailer

import (
	"sync"
)

// Email is one message recorded by MockMailer.
type Email struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer records messages instead of sending them. Send fails with Err when
// it is set, and nothing is recorded in that case.
type MockMailer struct {
	mu     sync.Mutex
	emails []Email

	Err error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.emails = append(m.emails, Email{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

// GetSentEmails returns a copy of the recorded messages in send order.
func (m *MockMailer) GetSentEmails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Email(nil), m.emails...)
}

// SentTo returns the messages recorded for recipient.
func (m *MockMailer) SentTo(recipient string) []Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sent []Email
	for _, email := range m.emails {
		if email.Recipient == recipient {
			sent = append(sent, email)
		}
	}

	return sent
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = nil
}
