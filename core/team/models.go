package team

import (
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/itchub/itchub/core"
)

// Team is a working group of the club. Each team owns one calendar.
type Team struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Department     string    `json:"department"`
	MailingList    string    `json:"mailing_list,omitempty"`
	TelegramChatID int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// MailingAddress returns the digest recipient of the team, if any.
func (t Team) MailingAddress() (mail.Address, bool) {
	if t.MailingList == "" {
		return mail.Address{}, false
	}
	return mail.Address{Name: t.Name, Address: t.MailingList}, true
}

// NewTeam contains information needed to create a new Team.
type NewTeam struct {
	Name           string `json:"name" yaml:"name" validate:"required,min=2,max=120"`
	Slug           string `json:"slug" yaml:"slug" validate:"omitempty,max=120,slug"`
	Department     string `json:"department" yaml:"department" validate:"max=120"`
	MailingList    string `json:"mailing_list" yaml:"mailing_list" validate:"omitempty,email"`
	TelegramChatID int64  `json:"telegram_chat_id" yaml:"telegram_chat_id"`
}

func (nt *NewTeam) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Slug = core.CleanString(nt.Slug, true /* lower */)
	if nt.Slug == "" {
		nt.Slug = core.Slugify(nt.Name)
	}
	nt.Department = core.CleanString(nt.Department)
	nt.MailingList = core.CleanString(nt.MailingList, true /* lower */)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(nt.Slug)
}
