package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Key prefixes of uploaded images.
const (
	AvatarPrefix    = "user_avatars/"
	TitlePagePrefix = "title_pages/"
)

// AvatarKey returns a collision-free key like
// user_avatars/20240131-3f0c...e1.png for an upload with extension ext.
func AvatarKey(now time.Time, ext string) string { return datedKey(AvatarPrefix, now, ext) }

// TitlePageKey is AvatarKey for book title pages.
func TitlePageKey(now time.Time, ext string) string { return datedKey(TitlePagePrefix, now, ext) }

func datedKey(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s%s-%s%s", prefix, now.UTC().Format("20060102"), uuid.NewString(), ext)
}

// DeleteObject deletes an object from the bucket (used for cleanup).
func (s *S3Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", objectKey, err)
	}
	return nil
}
