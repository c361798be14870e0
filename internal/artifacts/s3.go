package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Uploader copies result files to an S3 bucket so remote research
// environments can pull the dataset without access to the pipeline host.
type Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewUploader builds an uploader from the ambient AWS credential chain.
func NewUploader(ctx context.Context, bucket, prefix string, log zerolog.Logger) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Uploader{
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "s3_uploader").Logger(),
	}, nil
}

// UploadDir uploads every regular file in dir under prefix/<filename>.
func (u *Uploader) UploadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read results directory %s: %w", dir, err)
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := u.uploadFile(ctx, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			return err
		}
		uploaded++
	}

	u.log.Info().Int("files", uploaded).Str("bucket", u.bucket).Msg("Results uploaded")
	return nil
}

func (u *Uploader) uploadFile(ctx context.Context, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	key := filepath.ToSlash(filepath.Join(u.prefix, name))
	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", name, u.bucket, key, err)
	}

	u.log.Debug().Str("key", key).Msg("File uploaded")
	return nil
}
