package model

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageData is a decoded data URI.
type ImageData struct {
	MimeType string
	Bytes    []byte
}

// JPEGDataURI wraps base64 image bytes the way the views expect them.
func JPEGDataURI(b64 string) string {
	return "data:image/jpeg;base64," + b64
}

// DecodeDataURI parses a base64 "data:<mime>;base64,<payload>" URI.
func DecodeDataURI(uri string) (ImageData, error) {
	if !strings.HasPrefix(uri, "data:") {
		return ImageData{}, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return ImageData{}, fmt.Errorf("data URI has no payload")
	}
	mime, enc, _ := strings.Cut(header, ";")
	if enc != "base64" {
		return ImageData{}, fmt.Errorf("unsupported data URI encoding %q", enc)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageData{}, fmt.Errorf("decoding image payload: %w", err)
	}
	return ImageData{MimeType: mime, Bytes: data}, nil
}

// ImageFileName builds a filesystem-safe file name for a medication image.
func ImageFileName(name, mime string) string {
	ext := ".jpg"
	if mime == "image/png" {
		ext = ".png"
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 32:
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if safe == "" {
		safe = "medication"
	}
	return safe + ext
}

// SaveImage writes the image behind a data URI into dir and returns its path.
func SaveImage(dir, name, uri string) (string, error) {
	img, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}

	// Expand tilde in directory
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}

	path := filepath.Join(dir, ImageFileName(name, img.MimeType))
	if err := os.WriteFile(path, img.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("writing image %s: %w", path, err)
	}
	return path, nil
}
