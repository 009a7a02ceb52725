package image

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Processor returns encoded images for tasks, possibly from a cache
type Processor interface {
	ProcessImage(ctx context.Context, task *Task) (processedImage []byte, err error)
}

// Renderer draws and encodes an image for a task
type Renderer interface {
	Render(ctx context.Context, task *Task) ([]byte, error)
}

// ETag returns the entity tag for a placeholder of the given size.
// It only depends on the dimensions, so it can be computed without rendering anything.
func ETag(width, height int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("Placeholder: %d X %d", width, height)))
	return hex.EncodeToString(sum[:])
}

// ETag returns the entity tag for the task.
// PNG, the default format, uses the size only tag, other formats fold the format into the digest.
func (t *Task) ETag() string {
	if t.Format == PNG {
		return ETag(t.Width, t.Height)
	}

	sum := sha1.Sum([]byte(fmt.Sprintf("Placeholder: %d X %d %s", t.Width, t.Height, t.Format)))
	return hex.EncodeToString(sum[:])
}
