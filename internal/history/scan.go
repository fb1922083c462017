package history

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id             string
		outputPath     string
		width          int
		height         int
		fps            float64
		codec          sql.NullString
		statusStr      string
		framesCaptured int64
		framesEncoded  int64
		audioMuxed     sql.NullInt64
		errorMessage   sql.NullString
		startedRaw     sql.NullString
		finishedRaw    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&outputPath,
		&width,
		&height,
		&fps,
		&codec,
		&statusStr,
		&framesCaptured,
		&framesEncoded,
		&audioMuxed,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	session := &Session{
		ID:             id,
		OutputPath:     outputPath,
		Width:          width,
		Height:         height,
		FPS:            fps,
		Codec:          codec.String,
		Status:         Status(statusStr),
		FramesCaptured: framesCaptured,
		FramesEncoded:  framesEncoded,
		AudioMuxed:     audioMuxed.Valid && audioMuxed.Int64 != 0,
		ErrorMessage:   errorMessage.String,
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		session.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			session.FinishedAt = &finished
		}
	}
	return session, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
