// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushValidator(t *testing.T) {
	v := NewPushValidator()
	require.NotNil(t, v)
	assert.IsType(t, &PushValidator{}, v)
}

func TestPushValidator_Validate(t *testing.T) {
	v := NewPushValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{name: "valid broadcast", obj: transport.Push{Event: "notify"}},
		{name: "valid pointer", obj: &transport.Push{UID: "alice", Event: "notify", Payload: json.RawMessage(`{"n":1}`)}},
		{name: "unsupported type", obj: "notify", wantErr: ErrUnsupportedType},
		{name: "empty event", obj: transport.Push{}, wantErr: ErrEmptyEvent},
		{name: "event with spaces", obj: transport.Push{Event: "new message"}, wantErr: ErrInvalidEvent},
		{name: "event too long", obj: transport.Push{Event: strings.Repeat("e", 129)}, wantErr: ErrInvalidEvent},
		{name: "padded uid", obj: transport.Push{UID: " alice", Event: "e"}, wantErr: ErrInvalidUID},
		{name: "broken payload", obj: transport.Push{Event: "e", Payload: json.RawMessage(`{"n":`)}, wantErr: ErrInvalidPayload},
		{name: "scoped to uid skips event", obj: transport.Push{UID: "alice"}, fields: []string{FieldUID}},
		{name: "unknown field", obj: transport.Push{Event: "e"}, fields: []string{"topic"}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
