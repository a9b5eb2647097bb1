package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/cubic-js/cubic-api/internal/transport"
)

// Field name constants used to scope validation of a push.
const (
	// FieldEvent targets the event name delivered to stream connections.
	FieldEvent = "event"

	// FieldUID targets the optional identity the push is addressed to.
	FieldUID = "uid"

	// FieldPayload targets the optional JSON payload.
	FieldPayload = "payload"
)

const (
	maxEventLength = 128
	maxUIDLength   = 256
)

var defaultPushFields = []string{FieldEvent, FieldUID, FieldPayload}

// PushValidator implements the Validator interface for transport.Push.
type PushValidator struct {
}

func NewPushValidator() Validator {
	return &PushValidator{}
}

// Validate accepts transport.Push and *transport.Push. When no fields are
// given every field is checked.
func (v *PushValidator) Validate(_ context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case transport.Push:
		return v.validatePush(value, fields...)
	case *transport.Push:
		return v.validatePush(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *PushValidator) validatePush(push transport.Push, fields ...string) error {
	if len(fields) == 0 {
		fields = defaultPushFields
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldEvent:
			err = validateEvent(push.Event)
		case FieldUID:
			err = validateUID(push.UID)
		case FieldPayload:
			if len(push.Payload) > 0 && !json.Valid(push.Payload) {
				err = ErrInvalidPayload
			}
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateEvent(event string) error {
	if event == "" {
		return ErrEmptyEvent
	}
	if len(event) > maxEventLength || strings.IndexFunc(event, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}
	return nil
}

// validateUID accepts an empty uid, which addresses every connection.
func validateUID(uid string) error {
	if len(uid) > maxUIDLength || strings.TrimSpace(uid) != uid {
		return fmt.Errorf("%w: %q", ErrInvalidUID, uid)
	}
	return nil
}
