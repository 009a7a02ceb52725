package spaces

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type object struct {
	data         []byte
	lastModified time.Time
}

// fakeS3 keeps objects in memory, only the calls the provider makes are implemented
type fakeS3 struct {
	s3iface.S3API

	mu      sync.Mutex
	objects map[string]object
	fail    bool
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}

	o, ok := f.objects[*input.Bucket+"/"+*input.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(o.data)),
		LastModified: aws.Time(o.lastModified),
	}, nil
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	f.objects[*input.Bucket+"/"+*input.Key] = object{data: data, lastModified: time.Now()}
	return &s3.PutObjectOutput{}, nil
}

func TestSpaces(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{objects: make(map[string]object)}
	provider := NewWithClient(client, "space", "placeholder/", time.Hour)

	t.Run("get item", func(t *testing.T) {
		if err := provider.Set(ctx, "200.100.PNG", []byte("bar")); err != nil {
			t.Fatal(err)
		}

		if _, ok := client.objects["space/placeholder/200.100.PNG"]; !ok {
			t.Fatal("object stored under the wrong key")
		}

		data, err := provider.Get(ctx, "200.100.PNG")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		if _, err := provider.Get(ctx, "50.50.PNG"); err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("expired item", func(t *testing.T) {
		provider.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { provider.now = time.Now }()

		if _, err := provider.Get(ctx, "200.100.PNG"); err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	t.Run("get error", func(t *testing.T) {
		client.fail = true
		defer func() { client.fail = false }()

		_, err := provider.Get(ctx, "200.100.PNG")
		if err == nil || err == cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})
}
