package encoder

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// InputMode selects how FFmpeg receives video input.
type InputMode int

const (
	// InputDevice captures directly from a platform capture device
	// (avfoundation, x11grab, gdigrab). Stdin stays free for the quit command.
	InputDevice InputMode = iota
	// InputRawFrames reads raw RGBA frames from stdin, written by the
	// in-process capture pipeline.
	InputRawFrames
)

// EncodingMode selects the rate control strategy.
type EncodingMode int

const (
	// EncodeCFR produces constant frame rate output.
	EncodeCFR EncodingMode = iota
	// EncodeVFR preserves capture timestamps as variable frame rate.
	EncodeVFR
	// EncodeRealTime tunes for low latency at some quality cost.
	EncodeRealTime
)

// codecLibraries maps codec names to the FFmpeg encoder library used.
var codecLibraries = map[string]string{
	"h264": "libx264",
	"hevc": "libx265",
	"vp9":  "libvpx-vp9",
}

// audioCodecLibraries maps audio codec names to the FFmpeg encoder library.
var audioCodecLibraries = map[string]string{
	"aac":    "aac",
	"mp3":    "libmp3lame",
	"opus":   "libopus",
	"vorbis": "libvorbis",
}

// Params describes one encoding session.
type Params struct {
	Width       int
	Height      int
	FPS         int
	BitrateKbps int
	Codec       string // "h264", "hevc", "vp9"
	Format      string // "mp4", "mov", "webm"
	OutputPath  string

	InputMode    InputMode
	EncodingMode EncodingMode

	// CaptureCursor includes the cursor when capturing from a device.
	CaptureCursor bool
	// CaptureAudio adds an audio track; when false the output carries no
	// audio stream.
	CaptureAudio bool
	// AudioCodec is the audio codec: "aac", "mp3", "opus", or "vorbis".
	AudioCodec string
	// AudioBitrateKbps, AudioSampleRateHz, and AudioChannels tune the audio
	// track when CaptureAudio is set.
	AudioBitrateKbps  int
	AudioSampleRateHz int
	AudioChannels     int
	// DeviceInput is the platform device specifier for InputDevice mode,
	// e.g. "1:none" for avfoundation or ":0.0" for x11grab.
	DeviceInput string
	// Crop restricts the capture to a region, in pixels. Zero means full frame.
	Crop CropRect
	// KeyframeIntervalSec forces a keyframe cadence. Zero uses 2 seconds.
	KeyframeIntervalSec int
}

// CropRect is a capture sub-region in pixels.
type CropRect struct {
	X, Y, Width, Height int
}

// IsZero reports whether no crop was requested.
func (c CropRect) IsZero() bool {
	return c.Width == 0 && c.Height == 0
}

// BuildArgs constructs the FFmpeg argument list for the given parameters.
// The output path must be last; FFmpeg treats the final positional argument
// as the destination.
func BuildArgs(p Params) []string {
	args := []string{"-hide_banner", "-loglevel", "warning", "-y"}

	// Input
	switch p.InputMode {
	case InputRawFrames:
		args = append(args,
			"-f", "rawvideo",
			"-pix_fmt", "rgba",
			"-s", fmt.Sprintf("%dx%d", p.Width, p.Height),
			"-r", strconv.Itoa(p.FPS),
			"-i", "pipe:0",
		)
	default:
		args = append(args, deviceInputArgs(p)...)
	}

	// Filters
	if filter := buildFilter(p); filter != "" {
		args = append(args, "-vf", filter)
	}

	// Codec and rate control
	args = append(args, codecArgs(p)...)

	// Rate control mode
	switch p.EncodingMode {
	case EncodeVFR:
		args = append(args, "-vsync", "vfr")
	case EncodeRealTime:
		args = append(args, "-preset", "ultrafast", "-tune", "zerolatency")
	default:
		args = append(args, "-vsync", "cfr", "-r", strconv.Itoa(p.FPS))
	}

	// Fragmented MP4/MOV keeps partial files playable if the writer dies
	// before the trailer is written.
	if p.Format == "mp4" || p.Format == "mov" {
		args = append(args, "-movflags", "+faststart+frag_keyframe+empty_moov")
	}

	args = append(args, audioArgs(p)...)
	args = append(args, p.OutputPath)
	return args
}

// audioArgs selects the audio track encoding, or disables audio with -an.
func audioArgs(p Params) []string {
	if !p.CaptureAudio {
		return []string{"-an"}
	}

	lib, ok := audioCodecLibraries[p.AudioCodec]
	if !ok {
		lib = audioCodecLibraries["aac"]
	}
	return []string{
		"-c:a", lib,
		"-b:a", fmt.Sprintf("%dk", p.AudioBitrateKbps),
		"-ar", strconv.Itoa(p.AudioSampleRateHz),
		"-ac", strconv.Itoa(p.AudioChannels),
	}
}

// deviceInputArgs builds the platform capture device input arguments.
func deviceInputArgs(p Params) []string {
	cursor := "0"
	if p.CaptureCursor {
		cursor = "1"
	}

	switch runtime.GOOS {
	case "darwin":
		input := p.DeviceInput
		if input == "" {
			input = "1:none"
		}
		// avfoundation takes "video:audio"; "none" skips the audio device
		if p.CaptureAudio && strings.HasSuffix(input, ":none") {
			input = strings.TrimSuffix(input, "none") + "0"
		}
		return []string{
			"-f", "avfoundation",
			"-capture_cursor", cursor,
			"-framerate", strconv.Itoa(p.FPS),
			"-i", input,
		}
	case "windows":
		return []string{
			"-f", "gdigrab",
			"-draw_mouse", cursor,
			"-framerate", strconv.Itoa(p.FPS),
			"-i", "desktop",
		}
	default:
		input := p.DeviceInput
		if input == "" {
			input = ":0.0"
		}
		args := []string{
			"-f", "x11grab",
			"-draw_mouse", cursor,
			"-framerate", strconv.Itoa(p.FPS),
			"-video_size", fmt.Sprintf("%dx%d", p.Width, p.Height),
		}
		if !p.Crop.IsZero() {
			// x11grab takes the capture origin on the input specifier
			input = fmt.Sprintf("%s+%d,%d", input, p.Crop.X, p.Crop.Y)
		}
		return append(args, "-i", input)
	}
}

// buildFilter assembles the -vf filter chain: crop, then even-dimension
// padding. H.264 and HEVC with yuv420p require even dimensions.
func buildFilter(p Params) string {
	var filters []string

	// On platforms where the grabber cannot crop at the input, crop in the
	// filter graph instead.
	if !p.Crop.IsZero() && runtime.GOOS != "linux" {
		filters = append(filters, fmt.Sprintf("crop=%d:%d:%d:%d",
			p.Crop.Width, p.Crop.Height, p.Crop.X, p.Crop.Y))
	}

	filters = append(filters, "crop=trunc(iw/2)*2:trunc(ih/2)*2")

	return strings.Join(filters, ",")
}

// codecArgs builds codec selection, bitrate, pixel format, and keyframe
// cadence arguments.
func codecArgs(p Params) []string {
	lib, ok := codecLibraries[p.Codec]
	if !ok {
		lib = codecLibraries["h264"]
	}

	keyint := p.KeyframeIntervalSec
	if keyint <= 0 {
		keyint = 2
	}
	gop := p.FPS * keyint

	args := []string{
		"-c:v", lib,
		"-b:v", fmt.Sprintf("%dk", p.BitrateKbps),
		"-maxrate", fmt.Sprintf("%dk", p.BitrateKbps*5/4),
		"-bufsize", fmt.Sprintf("%dk", p.BitrateKbps*2),
		"-pix_fmt", "yuv420p",
		"-g", strconv.Itoa(gop),
	}

	if p.Codec == "vp9" {
		// libvpx-vp9 defaults to a single thread and falls behind real time
		args = append(args, "-row-mt", "1", "-deadline", "realtime")
	}

	return args
}
