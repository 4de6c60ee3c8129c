package user

import (
	"database/sql"
	"time"
)

// Profile represents a bot user and their messaging identifiers and
// notification preferences.
type Profile struct {
	ID          int64
	TelegramID  sql.NullInt64
	PhoneNumber sql.NullString // E.164, digits only
	WhatsAppJID sql.NullString // Stable user JID, preferred identifier
	WhatsAppLID sql.NullString // Business LID fallback
	FirstName   string
	Locale      string // BCP 47-ish, "pt-BR" or "en"

	// Reminder opt-outs. Default is enabled; a user is excluded from a
	// reminder run only when they explicitly disabled that type.
	StatementRemindersEnabled bool
	DueRemindersEnabled       bool

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WhatsAppChatID resolves the outbound WhatsApp identifier: stable JID
// first, then business LID, then a phone-number-derived JID. Returns ""
// when the user has no usable identifier at all.
func (p *Profile) WhatsAppChatID() string {
	if p.WhatsAppJID.Valid && p.WhatsAppJID.String != "" {
		return p.WhatsAppJID.String
	}
	if p.WhatsAppLID.Valid && p.WhatsAppLID.String != "" {
		return p.WhatsAppLID.String
	}
	if p.PhoneNumber.Valid && p.PhoneNumber.String != "" {
		return p.PhoneNumber.String + "@s.whatsapp.net"
	}
	return ""
}
