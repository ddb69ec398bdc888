package session

import "fmt"

// PutImage embeds an image
func PutImage(host Host, src, alt string) error {
	m, ok := host.(MediaSink)
	if !ok {
		return fmt.Errorf("image: %w", ErrUnsupported)
	}
	m.PutImage(src, alt)
	return nil
}

// PutVideo embeds a video player
func PutVideo(host Host, src string, opts MediaOptions) error {
	m, ok := host.(MediaSink)
	if !ok {
		return fmt.Errorf("video: %w", ErrUnsupported)
	}
	m.PutVideo(src, opts)
	return nil
}

// PutAudio embeds an audio player
func PutAudio(host Host, src string, opts MediaOptions) error {
	m, ok := host.(MediaSink)
	if !ok {
		return fmt.Errorf("audio: %w", ErrUnsupported)
	}
	m.PutAudio(src, opts)
	return nil
}
