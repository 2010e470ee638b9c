// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAgentCredentials(toEmail, fullName, password string) error
	SendHandoffNotice(toEmail, contactName, phone string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	consoleURL  string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	consoleURL := os.Getenv("CLIENT_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		consoleURL:  consoleURL,
	}
}

// SendAgentCredentials mails a newly created agent their initial password.
func (s *emailService) SendAgentCredentials(toEmail, fullName, password string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Acceso a la consola de agentes")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hola %s</h2>
			<p>Tu cuenta de agente fue creada. Ingresa con estas credenciales:</p>
			<p><b>Usuario:</b> %s</p>
			<p><b>Contraseña temporal:</b> %s</p>
			<p><a href="%s">Abrir la consola</a></p>
			<p>Cambia tu contraseña después del primer ingreso.</p>
		</div>
	`, fullName, toEmail, password, s.consoleURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send credentials to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Credentials sent to %s\n", toEmail)
	return nil
}

// SendHandoffNotice alerts an agent that a chat was assigned to them.
func (s *emailService) SendHandoffNotice(toEmail, contactName, phone string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Nueva conversación asignada")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Conversación asignada</h2>
			<p>El bot transfirió una conversación a tu bandeja:</p>
			<p><b>Contacto:</b> %s</p>
			<p><b>Teléfono:</b> %s</p>
			<p><a href="%s">Atender ahora</a></p>
		</div>
	`, contactName, phone, s.consoleURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send handoff notice to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
