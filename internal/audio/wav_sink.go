package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
const wavFormatPCM = 1

// WAVSink writes PCM buffers to a WAV file. The header is finalized on Close.
type WAVSink struct {
	mu      sync.Mutex
	path    string
	format  Format
	file    *os.File
	encoder *wav.Encoder
	closed  bool
}

// NewWAVSink creates (or truncates) path and prepares a WAV encoder for format.
func NewWAVSink(path string, format Format) (*WAVSink, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture file: %w", err)
	}
	return &WAVSink{
		path:    path,
		format:  format,
		file:    file,
		encoder: wav.NewEncoder(file, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM),
	}, nil
}

// Path returns the capture file location.
func (s *WAVSink) Path() string { return s.path }

// Write appends interleaved samples. Buffers must match the sink channel count.
func (s *WAVSink) Write(buf *goaudio.IntBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	if buf.Format != nil && buf.Format.NumChannels != s.format.Channels {
		return fmt.Errorf("buffer has %d channels, sink expects %d", buf.Format.NumChannels, s.format.Channels)
	}
	return s.encoder.Write(buf)
}

// Close finalizes the WAV header and closes the file.
func (s *WAVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	encErr := s.encoder.Close()
	fileErr := s.file.Close()
	if encErr != nil {
		return fmt.Errorf("finalize wav: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("close capture file: %w", fileErr)
	}
	return nil
}
