package config

const (
	defaultStateDir         = "~/.local/share/framecap"
	defaultLogDir           = "~/.local/share/framecap/logs"
	defaultOutputFile       = "~/Videos/framecap/recording.mp4"
	defaultWidth            = 1920
	defaultHeight           = 1080
	defaultFPS              = 60
	defaultCodec            = "libx264"
	defaultPixelFormat      = "rgba"
	defaultAudioCaptureFile = "capture.wav"
	defaultAudioSampleRate  = 44100
	defaultAudioChannels    = 2
	defaultAudioBitDepth    = 16
	defaultAudioCodec       = "aac"
	defaultAudioBitrate     = "192k"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Recording: Recording{
			Width:       defaultWidth,
			Height:      defaultHeight,
			FPS:         defaultFPS,
			Codec:       defaultCodec,
			OutputFile:  defaultOutputFile,
			PixelFormat: defaultPixelFormat,
		},
		Audio: Audio{
			Enabled:     false,
			CaptureFile: defaultAudioCaptureFile,
			SampleRate:  defaultAudioSampleRate,
			Channels:    defaultAudioChannels,
			BitDepth:    defaultAudioBitDepth,
			Codec:       defaultAudioCodec,
			Bitrate:     defaultAudioBitrate,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VerifyOutput:  true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
