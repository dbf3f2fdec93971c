//go:build unit || e2e

package smtptest

import (
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"event-notifier/internal/pkg/config"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/require"
)

const (
	Username = "notifier"
	Password = "secret"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Server is an in-process SMTP server that records accepted messages.
type Server struct {
	mu       sync.Mutex
	password string
	rcptErr  *smtp.SMTPError
	messages []Message
}

func NewServer() *Server {
	return &Server{password: Password}
}

// RejectPassword makes every login fail with 535.
func (s *Server) RejectPassword() *Server {
	s.password = "\x00"
	return s
}

// FailRcpt answers every RCPT TO with err.
func (s *Server) FailRcpt(err *smtp.SMTPError) *Server {
	s.rcptErr = err
	return s
}

func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Server) MessagesTo(addr string) []Message {
	var out []Message
	for _, m := range s.Messages() {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}

func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Start listens on a random loopback port and returns a matching client config.
func (s *Server) Start(t *testing.T) config.SMTPConfig {
	t.Helper()

	srv := smtp.NewServer(s)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return config.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     strconv.Itoa(l.Addr().(*net.TCPAddr).Port),
		Username: Username,
		Password: Password,
		From:     "Community Pulse <noreply@example.com>",
		Security: "none",
		Timeout:  5 * time.Second,
	}
}

func (s *Server) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{srv: s}, nil
}

type session struct {
	srv  *Server
	from string
	to   string
}

func (s *session) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *session) Auth(_ string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(_, username, password string) error {
		if username != Username || password != s.srv.password {
			return &smtp.SMTPError{Code: 535, EnhancedCode: smtp.EnhancedCode{5, 7, 8}, Message: "Authentication failed"}
		}
		return nil
	}), nil
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	if s.srv.rcptErr != nil {
		return s.srv.rcptErr
	}
	s.to = to
	return nil
}

func (s *session) Data(r io.Reader) error {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return err
	}
	subject, err := mr.Header.Subject()
	if err != nil {
		return err
	}
	part, err := mr.NextPart()
	if err != nil {
		return err
	}
	body, err := io.ReadAll(part.Body)
	if err != nil {
		return err
	}

	s.srv.mu.Lock()
	defer s.srv.mu.Unlock()
	s.srv.messages = append(s.srv.messages, Message{From: s.from, To: s.to, Subject: subject, Body: string(body)})
	return nil
}

func (s *session) Reset() {}

func (s *session) Logout() error { return nil }
