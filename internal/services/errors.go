package services

import (
	"errors"
	"fmt"
	"strings"

	"framecap/internal/history"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrEncoderInit     = errors.New("encoder init failed")
	ErrEncoderWrite    = errors.New("encoder write failed")
	ErrMux             = errors.New("mux failed")
	ErrExternalTool    = errors.New("external tool error")
	ErrConfiguration   = errors.New("configuration error")
	ErrNotFound        = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a session error to the history status recorded for it.
// Write and mux failures still leave a playable file behind, so they are
// reported as partial rather than failed.
func FailureStatus(err error) history.Status {
	switch {
	case err == nil:
		return history.StatusCompleted
	case errors.Is(err, ErrEncoderWrite), errors.Is(err, ErrMux):
		return history.StatusPartial
	default:
		return history.StatusFailed
	}
}

// kinds orders the sentinels by precedence for Kind; a session that failed
// to start never reaches write or mux.
var kinds = []struct {
	marker error
	name   string
}{
	{ErrInvalidSettings, "invalid_settings"},
	{ErrEncoderInit, "encoder_init_failed"},
	{ErrEncoderWrite, "encoder_write_failed"},
	{ErrMux, "mux_failed"},
	{ErrConfiguration, "configuration"},
	{ErrNotFound, "not_found"},
	{ErrExternalTool, "external_tool"},
}

// Kind names the first sentinel err matches, for use as a log event type.
// Nil yields "" and unclassified errors yield "unknown".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "recorder failure"
	}
	return strings.Join(parts, ": ")
}
