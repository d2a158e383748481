package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	xdraw "golang.org/x/image/draw"
)

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const accessCodeLength = 12

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	Slugify(name string) string
	RandomAccessCode() (string, error)
	FallbackAccessCode() string
	ValidateImageFile(file *multipart.FileHeader) error
	ConvertFileToBase64(file multipart.File) (string, error)
	DownscaleFrame(imageData []byte, maxWidth, maxHeight, quality int) ([]byte, error)
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) Slugify(name string) string {
	return slug.Make(name)
}

// RandomAccessCode returns a 12-character uppercase alphanumeric code drawn
// from crypto/rand. Uniqueness is the caller's concern.
func (u *utils) RandomAccessCode() (string, error) {
	buf := make([]byte, accessCodeLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}

	code := make([]byte, accessCodeLength)
	for i, b := range buf {
		code[i] = accessCodeAlphabet[int(b)%len(accessCodeAlphabet)]
	}

	return string(code), nil
}

// FallbackAccessCode derives a code from a fresh UUID. Used when random
// generation keeps colliding with existing projects.
func (u *utils) FallbackAccessCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:accessCodeLength]
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return errors.New("no file uploaded")
	}

	if file.Size > u.maxFileSize {
		return errors.New("file size exceeds limit")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errors.New("uploaded file is not an image")
	}

	return nil
}

func (u *utils) ConvertFileToBase64(file multipart.File) (string, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(fileBytes), nil
}

// DownscaleFrame shrinks an oversized camera frame before it is handed to a
// model backend. Frames already within bounds are re-encoded as-is.
func (u *utils) DownscaleFrame(imageData []byte, maxWidth, maxHeight, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	newWidth, newHeight := origWidth, origHeight
	if origWidth > maxWidth || origHeight > maxHeight {
		ratio := float64(origWidth) / float64(origHeight)

		if origWidth > origHeight {
			newWidth = maxWidth
			newHeight = int(float64(maxWidth) / ratio)
		} else {
			newHeight = maxHeight
			newWidth = int(float64(maxHeight) * ratio)
		}
	}

	out := img
	if newWidth != origWidth || newHeight != origHeight {
		scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
