package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/exceptions"
)

type minioArchive struct {
	MinioClient *minio.Client
	BucketName  string
}

func NewMinioArchive(minioClient *minio.Client, bucketName string) contracts.CallbackArchiveService {
	return &minioArchive{
		MinioClient: minioClient,
		BucketName:  bucketName,
	}
}

// ArchiveCallback stores the raw payload under a date-partitioned object name
// so disputes can be matched back to the exact bytes the gateway sent.
func (m *minioArchive) ArchiveCallback(ctx context.Context, gateway string, payload []byte) (string, error) {
	now := time.Now().UTC()
	objectName := fmt.Sprintf("%s/%s/%s_%s.json",
		gateway,
		now.Format("2006/01/02"),
		now.Format("150405"),
		uuid.NewString(),
	)

	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	return objectName, nil
}
