package image_test

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/DMarby/placeholder/internal/image"
)

func TestETag(t *testing.T) {
	tests := []struct {
		Width  int
		Height int
		Input  string
	}{
		{200, 100, "Placeholder: 200 X 100"},
		{1, 1, "Placeholder: 1 X 1"},
		{2000, 2000, "Placeholder: 2000 X 2000"},
	}

	for _, test := range tests {
		sum := sha1.Sum([]byte(test.Input))
		expected := hex.EncodeToString(sum[:])

		if etag := image.ETag(test.Width, test.Height); etag != expected {
			t.Errorf("%s: wrong etag %s", test.Input, etag)
		}
	}

	if image.ETag(200, 100) == image.ETag(100, 200) {
		t.Error("etag does not depend on the order of width and height")
	}
}

func TestTaskETag(t *testing.T) {
	if etag := image.NewTask(200, 100, image.PNG).ETag(); etag != image.ETag(200, 100) {
		t.Errorf("png etag differs from the size etag, %s", etag)
	}

	etags := map[string]image.OutputFormat{}
	for _, format := range []image.OutputFormat{image.PNG, image.JPEG, image.GIF} {
		etag := image.NewTask(200, 100, format).ETag()
		if other, exists := etags[etag]; exists {
			t.Errorf("%s and %s share the etag %s", format, other, etag)
		}

		etags[etag] = format
	}
}

func TestTask(t *testing.T) {
	tests := []struct {
		Task                *image.Task
		ExpectedKey         string
		ExpectedLabel       string
		ExpectedContentType string
	}{
		{image.NewTask(200, 100, image.PNG), "200.100.PNG", "200 X 100", "image/png"},
		{image.NewTask(50, 50, image.PNG), "50.50.PNG", "50 X 50", "image/png"},
		{image.NewTask(640, 480, image.JPEG), "640.480.JPEG", "640 X 480", "image/jpeg"},
		{image.NewTask(1, 2000, image.GIF), "1.2000.GIF", "1 X 2000", "image/gif"},
	}

	for _, test := range tests {
		if key := test.Task.Key(); key != test.ExpectedKey {
			t.Errorf("%s: wrong key %s", test.ExpectedKey, key)
		}

		if label := test.Task.Label(); label != test.ExpectedLabel {
			t.Errorf("%s: wrong label %s", test.ExpectedKey, label)
		}

		if contentType := test.Task.Format.ContentType(); contentType != test.ExpectedContentType {
			t.Errorf("%s: wrong content type %s", test.ExpectedKey, contentType)
		}
	}

	// 1.11.PNG and 11.1.PNG must not collide
	if image.NewTask(1, 11, image.PNG).Key() == image.NewTask(11, 1, image.PNG).Key() {
		t.Error("keys collide")
	}
}
