package spaces

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/DMarby/placeholder/internal/cache"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Provider implements a cache on top of a digitalocean space, or any other s3 compatible bucket
// Objects last modified longer ago than the ttl are treated as missing
type Provider struct {
	spaces s3iface.S3API
	space  string
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// New returns a new Provider instance, verifying that the space is reachable
func New(ctx context.Context, space, endpoint, accessKey, secretKey string, forcePathStyle bool, prefix string, ttl time.Duration) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	client := s3.New(spacesSession)
	if _, err := client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(space)}); err != nil {
		return nil, err
	}

	return NewWithClient(client, space, prefix, ttl), nil
}

// NewWithClient returns a Provider using an existing s3 client
func NewWithClient(client s3iface.S3API, space, prefix string, ttl time.Duration) *Provider {
	return &Provider{
		spaces: client,
		space:  space,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns an object from the cache if it exists and has not expired
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := p.spaces.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.space),
		Key:    aws.String(p.prefix + key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, cache.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	if p.ttl > 0 && output.LastModified != nil && p.now().Sub(*output.LastModified) > p.ttl {
		return nil, cache.ErrNotFound
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, output.Body); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Set uploads an object to the space
func (p *Provider) Set(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.space),
		Key:         aws.String(p.prefix + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	}

	if p.ttl > 0 {
		input.Expires = aws.Time(p.now().Add(p.ttl))
	}

	_, err := p.spaces.PutObjectWithContext(ctx, input)
	return err
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
