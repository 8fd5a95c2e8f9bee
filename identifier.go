package auth

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// IdentifierKind tags what an identifier resolved to
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
	IdentifierID    IdentifierKind = "id"
)

// Identifier is a resolved account handle. Value is normalized: lower
// cased for emails, E.164 for phone numbers, canonical form for ids.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ResolveIdentifier classifies a raw identifier as an account id, an
// email address, or a phone number, in that order.
func ResolveIdentifier(raw string) (Identifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identifier{}, ErrInvalidInput
	}

	if id, err := uuid.Parse(trimmed); err == nil {
		return Identifier{Kind: IdentifierID, Value: id.String()}, nil
	}

	if addr, err := mail.ParseAddress(trimmed); err == nil {
		return Identifier{Kind: IdentifierEmail, Value: strings.ToLower(addr.Address)}, nil
	}

	// phonenumbers needs a region to resolve national formats, we only
	// accept international ones
	if num, err := phonenumbers.Parse(trimmed, ""); err == nil && phonenumbers.IsValidNumber(num) {
		return Identifier{
			Kind:  IdentifierPhone,
			Value: phonenumbers.Format(num, phonenumbers.E164),
		}, nil
	}

	return Identifier{}, ErrInvalidInput
}

// Filter maps the identifier onto an account lookup
func (i Identifier) Filter() AccountFilter {
	switch i.Kind {
	case IdentifierID:
		id, err := uuid.Parse(i.Value)
		if err != nil {
			return AccountFilter{}
		}
		return AccountFilter{ID: id}
	case IdentifierEmail:
		return AccountFilter{Email: i.Value}
	case IdentifierPhone:
		return AccountFilter{Phone: i.Value}
	default:
		return AccountFilter{}
	}
}
