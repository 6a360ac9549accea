package s3backup

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

const uploadTimeout = 2 * time.Minute

type uploader interface {
	UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) (*UploadResult, error)
}

// Archiver copies every successful result to the bucket in the background.
// Upload errors are logged only.
type Archiver struct {
	client uploader
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewArchiver(client *Client) *Archiver {
	return &Archiver{client: client, now: time.Now}
}

// ObserveAttempt implements shrink.AttemptObserver
func (a *Archiver) ObserveAttempt(_ context.Context, attempt shrink.Attempt) {
	if !attempt.Succeeded() || len(attempt.Data) == 0 {
		return
	}

	key := ObjectKey(a.now(), attempt.Download.Token, attempt.Download.FileName)
	data := attempt.Data
	mimeType := attempt.Download.MimeType

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		result, err := a.client.UploadBytes(ctx, key, data, mimeType)
		if err != nil {
			log.Errorf("[S3Backup] Archiving %s failed: %v", key, err)
			return
		}
		log.Infof("[S3Backup] Archived s3://%s/%s (%d bytes)", result.BucketName, result.ObjectKey, result.Size)
	}()
}

// Wait blocks until all pending uploads are done
func (a *Archiver) Wait() {
	a.wg.Wait()
}
