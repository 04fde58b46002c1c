package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

type Mailer interface {
	SendPasswordReset(to, resetLink string) error
	SendEmailConfirmation(to, confirmLink string) error
}

// SMTPMailer sends transactional mail over implicit TLS (port 465).
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, resetLink string) error {
	subject := "Redefinição de senha - MyPersonalTrainer"
	body := fmt.Sprintf(`<p>Recebemos um pedido para redefinir sua senha.</p>
<p><a href="%s">Clique aqui para criar uma nova senha</a>. O link expira em 30 minutos.</p>
<p>Se você não pediu a redefinição, ignore este email.</p>`, resetLink)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) SendEmailConfirmation(to, confirmLink string) error {
	subject := "Confirme seu email - MyPersonalTrainer"
	body := fmt.Sprintf(`<p>Sua conta foi criada com sucesso.</p>
<p><a href="%s">Clique aqui para confirmar seu email</a> e liberar o acesso.</p>`, confirmLink)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.host + ":" + m.port
	tlsConfig := &tls.Config{ServerName: m.host}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
