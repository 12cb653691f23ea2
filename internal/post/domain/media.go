package domain

import (
	"errors"
	"strings"
	"time"
)

// MediaCategory classifies an attachment's content type.
type MediaCategory string

const (
	MediaCategoryImage MediaCategory = "image"
	MediaCategoryVideo MediaCategory = "video"
	MediaCategoryAudio MediaCategory = "audio"
	MediaCategoryOther MediaCategory = "other"
)

// MediaAttachment is a media file attached to a post. The identifying fields
// are immutable after construction; only the descriptive fields (alt text,
// dimensions, duration, thumbnail) may be set afterwards.
type MediaAttachment struct {
	ID              string
	PostID          string
	URL             string
	FileName        string
	ContentType     string
	FileSize        int64
	AltText         string
	Width           int // 0 = unset; set together with Height
	Height          int
	DurationSeconds float64 // 0 = unset; for audio/video
	ThumbnailURL    string
	CreatedAt       time.Time
}

// NewMediaAttachment builds a valid attachment or returns an error naming the
// offending parameter.
func NewMediaAttachment(id, postID, url, fileName, contentType string, fileSize int64) (*MediaAttachment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("id is required")
	}
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("postID is required")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("url is required")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, errors.New("fileName is required")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return nil, errors.New("contentType is required")
	}
	if fileSize <= 0 {
		return nil, errors.New("fileSize must be positive")
	}
	return &MediaAttachment{
		ID:          strings.TrimSpace(id),
		PostID:      strings.TrimSpace(postID),
		URL:         url,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    fileSize,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// SetDimensions records pixel dimensions. Width and height are required
// together and must both be positive.
func (m *MediaAttachment) SetDimensions(width, height int) error {
	if width <= 0 {
		return errors.New("width must be positive")
	}
	if height <= 0 {
		return errors.New("height must be positive")
	}
	m.Width = width
	m.Height = height
	return nil
}

// SetDuration records playback length in seconds, for audio and video.
func (m *MediaAttachment) SetDuration(seconds float64) error {
	if seconds <= 0 {
		return errors.New("duration must be positive")
	}
	m.DurationSeconds = seconds
	return nil
}

// SetAltText sets the accessibility description. Empty clears it.
func (m *MediaAttachment) SetAltText(altText string) {
	m.AltText = strings.TrimSpace(altText)
}

// SetThumbnailURL sets the preview image URL. Empty clears it.
func (m *MediaAttachment) SetThumbnailURL(url string) {
	m.ThumbnailURL = strings.TrimSpace(url)
}

// IsImage reports whether the attachment is an image.
func (m *MediaAttachment) IsImage() bool { return m.Category() == MediaCategoryImage }

// IsVideo reports whether the attachment is a video.
func (m *MediaAttachment) IsVideo() bool { return m.Category() == MediaCategoryVideo }

// IsAudio reports whether the attachment is audio.
func (m *MediaAttachment) IsAudio() bool { return m.Category() == MediaCategoryAudio }

// Category classifies the attachment by the major part of its content type.
func (m *MediaAttachment) Category() MediaCategory {
	ct := strings.ToLower(m.ContentType)
	switch {
	case strings.HasPrefix(ct, "image/"):
		return MediaCategoryImage
	case strings.HasPrefix(ct, "video/"):
		return MediaCategoryVideo
	case strings.HasPrefix(ct, "audio/"):
		return MediaCategoryAudio
	default:
		return MediaCategoryOther
	}
}
