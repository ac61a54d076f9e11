package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// aclMetadataKey is the user metadata entry holding the encoded ACLPolicy.
const aclMetadataKey = "acl-policy"

// S3Config configures the S3 backend. Endpoint is only set for
// S3-compatible services such as MinIO; it switches to path-style addressing.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
}

// S3Backend stores objects in an S3 bucket. ACL policies live in the
// object's user metadata.
type S3Backend struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Backend loads the default AWS credential chain and builds an
// S3Backend for cfg.Bucket.
func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3BackendFromClient(client, cfg.Bucket), nil
}

// NewS3BackendFromClient wraps an existing client.
func NewS3BackendFromClient(client *s3.Client, bucket string) *S3Backend {
	return &S3Backend{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

func (b *S3Backend) UploadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := b.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// KeyFromURL accepts both virtual-hosted (bucket.s3.region.amazonaws.com/key)
// and path-style (host/bucket/key) URLs for this bucket.
func (b *S3Backend) KeyFromURL(u *url.URL) (string, bool) {
	path := strings.TrimPrefix(u.Path, "/")
	var key string
	switch {
	case strings.HasPrefix(u.Host, b.bucket+"."):
		key = path
	case strings.HasPrefix(path, b.bucket+"/"):
		key = strings.TrimPrefix(path, b.bucket+"/")
	default:
		return "", false
	}
	if !strings.HasPrefix(key, UploadPrefix) || key == UploadPrefix {
		return "", false
	}
	return key, true
}

func (b *S3Backend) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectInfo{}, b.wrap("head", key, err)
	}
	return b.info(key, out.ContentType, out.ContentLength, out.ETag, out.LastModified, out.Metadata)
}

// SetACL rewrites the object's metadata in place with a self-copy.
func (b *S3Backend) SetACL(ctx context.Context, key string, policy ACLPolicy) error {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return b.wrap("head", key, err)
	}
	existing, err := decodePolicy(head.Metadata[aclMetadataKey])
	if err != nil {
		return err
	}
	if !policy.claims(existing) {
		return ErrObjectNotFound
	}

	encoded, err := policy.encode()
	if err != nil {
		return err
	}
	metadata := make(map[string]string, len(head.Metadata)+1)
	for k, v := range head.Metadata {
		metadata[k] = v
	}
	metadata[aclMetadataKey] = encoded

	_, err = b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(b.bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(b.bucket + "/" + url.PathEscape(key)),
		CopySourceIfMatch: head.ETag,
		ContentType:       head.ContentType,
		Metadata:          metadata,
		MetadataDirective: s3types.MetadataDirectiveReplace,
	})
	if err != nil {
		return b.wrap("copy", key, err)
	}
	return nil
}

func (b *S3Backend) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ObjectInfo{}, b.wrap("get", key, err)
	}
	info, err := b.info(key, out.ContentType, out.ContentLength, out.ETag, out.LastModified, out.Metadata)
	if err != nil {
		out.Body.Close()
		return nil, ObjectInfo{}, err
	}
	return out.Body, info, nil
}

func (b *S3Backend) info(key string, contentType *string, size *int64, etag *string, modified *time.Time, metadata map[string]string) (ObjectInfo, error) {
	policy, err := decodePolicy(metadata[aclMetadataKey])
	if err != nil {
		return ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:         key,
		ContentType: aws.ToString(contentType),
		Size:        aws.ToInt64(size),
		ETag:        strings.Trim(aws.ToString(etag), `"`),
		ACL:         policy,
	}
	if modified != nil {
		info.UpdatedAt = *modified
	}
	return info, nil
}

func (b *S3Backend) wrap(op, key string, err error) error {
	if isNotFound(err) {
		return ErrObjectNotFound
	}
	return fmt.Errorf("s3 %s %s: %w", op, key, err)
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
