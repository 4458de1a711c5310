package persistence

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/fanout"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// S3Config names an S3-compatible bucket to mirror documents into.
// Endpoint is optional; set it to point at an S3-compatible provider
// other than AWS (the teacher points this at Cloudflare R2).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Backup wraps a Store and mirrors every write to an S3-compatible
// bucket, adapted from the teacher's whole-database R2 archive upload
// (internal/reliability/r2_backup_service.go) down to per-document
// mirroring: each SaveAnalysis/SaveScan call also uploads the same
// msgpack blob under a key derived from its table and caller key, so a
// store rebuild can replay individual documents instead of restoring a
// full tar archive.
type S3Backup struct {
	Store
	client *s3.Client
	bucket string
	log    zerolog.Logger
}

// NewS3Backup builds an S3Backup around an existing Store, wrapping every
// write with a best-effort mirror upload: a failed mirror is logged, not
// returned, so a transient upload outage never blocks the primary store.
func NewS3Backup(ctx context.Context, store Store, cfg S3Config, log zerolog.Logger) (*S3Backup, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for s3 backup: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.Endpoint != ""
	})

	return &S3Backup{
		Store:  store,
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("component", "s3_backup").Logger(),
	}, nil
}

func (b *S3Backup) mirror(ctx context.Context, objectKey string, doc any) {
	blob, err := msgpack.Marshal(doc)
	if err != nil {
		b.log.Warn().Err(err).Str("key", objectKey).Msg("failed to encode document for s3 mirror")
		return
	}

	uploader := manager.NewUploader(b.client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &b.bucket,
		Key:    &objectKey,
		Body:   bytes.NewReader(blob),
	}); err != nil {
		b.log.Warn().Err(err).Str("key", objectKey).Msg("failed to mirror document to s3")
	}
}

func (b *S3Backup) SaveAnalysis(ctx context.Context, key string, snapshot analysis.Snapshot, ttl time.Duration) error {
	if err := b.Store.SaveAnalysis(ctx, key, snapshot, ttl); err != nil {
		return err
	}
	b.mirror(ctx, "analyses/"+key+".msgpack", snapshot)
	return nil
}

func (b *S3Backup) SaveScan(ctx context.Context, key string, result fanout.ScanResult, ttl time.Duration) error {
	if err := b.Store.SaveScan(ctx, key, result, ttl); err != nil {
		return err
	}
	b.mirror(ctx, "scans/"+key+".msgpack", result)
	return nil
}

// SweepExpired passes through to the wrapped store when it supports
// sweeping, so the scheduler's cache-sweep job still works when the S3
// mirror is enabled. The mirror itself is never swept: S3 lifecycle
// rules, not this process, are the right tool for expiring remote
// objects.
func (b *S3Backup) SweepExpired(ctx context.Context) (int64, error) {
	if sweeper, ok := b.Store.(interface {
		SweepExpired(ctx context.Context) (int64, error)
	}); ok {
		return sweeper.SweepExpired(ctx)
	}
	return 0, nil
}
