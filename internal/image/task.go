package image

import "fmt"

// Task is an image rendering task
type Task struct {
	Width  int
	Height int
	Format OutputFormat
}

// OutputFormat is the image format to output to
type OutputFormat int

const (
	// PNG represents the PNG format, the default
	PNG OutputFormat = iota
	// JPEG represents the JPEG format
	JPEG
	// GIF represents the GIF format
	GIF
)

// String returns the format name used in cache keys
func (f OutputFormat) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	default:
		return "PNG"
	}
}

// ContentType returns the mime type for the format
func (f OutputFormat) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	default:
		return "image/png"
	}
}

// NewTask creates a new image rendering task
func NewTask(width int, height int, format OutputFormat) *Task {
	return &Task{
		Width:  width,
		Height: height,
		Format: format,
	}
}

// Key returns the cache key for the task, e.g. 200.100.PNG
func (t *Task) Key() string {
	return fmt.Sprintf("%d.%d.%s", t.Width, t.Height, t.Format)
}

// Label returns the text drawn on the image
func (t *Task) Label() string {
	return fmt.Sprintf("%d X %d", t.Width, t.Height)
}
