package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/page-analyzer/internal/adapter/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/usecase"
	"github.com/vadimbarashkov/page-analyzer/pkg/urlnorm"
)

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{name: "empty", err: fmt.Errorf("op: %w", urlnorm.ErrEmpty), want: msgURLEmpty, wantOK: true},
		{name: "invalid", err: fmt.Errorf("op: %w", urlnorm.ErrInvalid), want: msgURLInvalid, wantOK: true},
		{name: "too long", err: fmt.Errorf("op: %w", urlnorm.ErrTooLong), want: msgURLTooLong, wantOK: true},
		{name: "not a validation error", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validationMessage(tt.err)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckMessage(t *testing.T) {
	tests := []struct {
		name   string
		result usecase.CheckResult
		want   flashMessage
		wantOK bool
	}{
		{
			name:   "skipped",
			result: usecase.CheckResult{Status: usecase.CheckSkipped},
		},
		{
			name:   "succeeded",
			result: usecase.CheckResult{Status: usecase.CheckSucceeded},
			want:   flashMessage{Kind: flashSuccess, Message: msgCheckSucceeded},
			wantOK: true,
		},
		{
			name:   "connection failed",
			result: usecase.CheckResult{Status: usecase.CheckFailed, Reason: fetcher.KindConnectionFailed},
			want:   flashMessage{Kind: flashDanger, Message: msgConnectionFailed},
			wantOK: true,
		},
		{
			name:   "client error",
			result: usecase.CheckResult{Status: usecase.CheckFailed, Reason: fetcher.KindClientError, StatusCode: 404},
			want:   flashMessage{Kind: flashDanger, Message: "The site responded with error status 404"},
			wantOK: true,
		},
		{
			name:   "server error",
			result: usecase.CheckResult{Status: usecase.CheckFailed, Reason: fetcher.KindServerError, StatusCode: 502},
			want:   flashMessage{Kind: flashDanger, Message: "The site responded with error status 502"},
			wantOK: true,
		},
		{
			name:   "timeout",
			result: usecase.CheckResult{Status: usecase.CheckFailed, Reason: fetcher.KindTimeout},
			want:   flashMessage{Kind: flashDanger, Message: msgTimeout},
			wantOK: true,
		},
		{
			name:   "other",
			result: usecase.CheckResult{Status: usecase.CheckFailed, Reason: fetcher.KindOther},
			want:   flashMessage{Kind: flashDanger, Message: msgCheckFailed},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := checkMessage(tt.result)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
