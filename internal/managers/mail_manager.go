// Package managers handles the sending of the signup welcome mail using the
// Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendWelcomeMail(email, username string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Mindwell <no-reply@mail.mindwell.app>"
var environment string

// SendWelcomeMail sends a welcome email to a freshly signed-up user.
// Outside production the mail is skipped so local signups stay quiet.
func (mm *MailManager) SendWelcomeMail(email, username string) error {
	if environment != "production" {
		log.Info("Skipping welcome mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"Welcome to Mindwell! We're glad you decided to take care of yourself.",
				"Your account is ready: you can start logging moods, activities and exercises right away.",
			},
			Outros: []string{
				"Mindwell is not a replacement for professional therapy. If you are in crisis, please check the emergency resources in the app.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
	}()

	message := mm.Mailgun.NewMessage(from, "Welcome to Mindwell", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending welcome mail: " + err.Error())
		return err
	}
	log.Debug("Welcome mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	mailgunInstance := mailgun.NewMailgun("mail.mindwell.app", apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "Mindwell",
				Link:      "https://mindwell.app/",
				Copyright: "© Mindwell",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
