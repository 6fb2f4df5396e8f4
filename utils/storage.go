package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"
)

// Uploader stores a car image and returns its public URL. The catalog keeps
// the URL, not the bytes, which keeps the cars document small.
type Uploader interface {
	UploadCarImage(ctx context.Context, carID string, fh *multipart.FileHeader) (string, error)
}

// NewUploaderFromEnv picks the object-storage backend from UPLOAD_BACKEND
// (r2 or gcs). An empty setting returns nil: admins then supply image URLs
// directly.
func NewUploaderFromEnv(ctx context.Context) (Uploader, error) {
	switch backend := os.Getenv("UPLOAD_BACKEND"); backend {
	case "r2":
		return NewR2Client()
	case "gcs":
		return NewGCSClient(ctx)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown UPLOAD_BACKEND %q", backend)
	}
}

// R2Client uploads to an S3-compatible Cloudflare R2 bucket.
type R2Client struct {
	S3     *s3.Client
	Bucket string
}

func NewR2Client() (*R2Client, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT")

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Client{S3: client, Bucket: bucket}, nil
}

func (r2 *R2Client) UploadCarImage(ctx context.Context, carID string, fh *multipart.FileHeader) (string, error) {
	objectName, ct := carObjectName(carID, fh)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	_, err = r2.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2.Bucket),
		Key:         aws.String(objectName),
		Body:        f,
		ContentType: aws.String(ct),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fh.Filename, err)
	}

	domain := strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/")
	return fmt.Sprintf("%s/%s/%s", domain, r2.Bucket, objectName), nil
}

// GCSClient uploads to a Google Cloud Storage bucket.
type GCSClient struct {
	Client *storage.Client
	Bucket string
}

func NewGCSClient(ctx context.Context) (*GCSClient, error) {
	bucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	if bucket == "" || credentialsPath == "" {
		return nil, fmt.Errorf("missing GCS env vars (GCS_BUCKET, CREDENTIALS_FILE_LOCATION)")
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx,
		option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, err
	}
	return &GCSClient{Client: client, Bucket: bucket}, nil
}

func (g *GCSClient) UploadCarImage(ctx context.Context, carID string, fh *multipart.FileHeader) (string, error) {
	objectName, ct := carObjectName(carID, fh)

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	w := g.Client.Bucket(g.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = ct

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.Bucket, objectName), nil
}

func carObjectName(carID string, fh *multipart.FileHeader) (name, contentType string) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return fmt.Sprintf("cars/%s/%d%s", carID, time.Now().UnixNano(), ext), ct
}

type FileValidator struct {
	allowedExt  map[string]bool
	allowedMime map[string]bool
	maxSize     int64
}

// NewImageValidator gates car image uploads by extension, sniffed MIME type
// and size. Defaults cover jpeg/png/webp at 5 MB; all three are overridable
// from the environment.
func NewImageValidator() *FileValidator {
	allowedExt := map[string]bool{}
	for _, ext := range strings.Split(EnvDefault("ALLOWED_FILE_EXTENSIONS", ".jpg,.jpeg,.png,.webp"), ",") {
		if ext = strings.TrimSpace(strings.ToLower(ext)); ext != "" {
			allowedExt[ext] = true
		}
	}

	allowedMime := map[string]bool{}
	for _, m := range strings.Split(EnvDefault("ALLOWED_FILE_MIME_TYPES", "image/jpeg,image/png,image/webp"), ",") {
		if m = strings.TrimSpace(strings.ToLower(m)); m != "" {
			allowedMime[m] = true
		}
	}

	sizeMB := 5
	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sizeMB = parsed
		}
	}

	return &FileValidator{
		allowedExt:  allowedExt,
		allowedMime: allowedMime,
		maxSize:     int64(sizeMB) << 20,
	}
}

func (v *FileValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("file too large (max %d MB)", v.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !v.allowedExt[ext] {
		return "", fmt.Errorf("invalid file extension")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	if _, err = file.Read(buffer); err != nil {
		return "", fmt.Errorf("failed to read file header")
	}
	if _, err = file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to reset file reader")
	}

	detectedMime := strings.ToLower(http.DetectContentType(buffer))
	// DetectContentType may append a charset suffix.
	if i := strings.Index(detectedMime, ";"); i >= 0 {
		detectedMime = strings.TrimSpace(detectedMime[:i])
	}
	if !v.allowedMime[detectedMime] {
		return "", fmt.Errorf("invalid file type")
	}

	return detectedMime, nil
}
