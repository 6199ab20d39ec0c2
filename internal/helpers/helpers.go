package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const (
	EventsFolder = "events"
	AdminRole    = "admin"
)

// TrimAll trims every element of list in place and returns it.
func TrimAll(list []string) []string {
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	return list
}

// TokenVerifier validates admin bearer tokens either against a shared HMAC
// secret or against keys published at a JWKS endpoint.
type TokenVerifier struct {
	keyFunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

func NewHMACVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("hmac secret is empty")
	}
	key := []byte(secret)
	return &TokenVerifier{
		keyFunc: func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		},
	}, nil
}

func NewJWKSVerifier(ctx context.Context, jwksURL string) (*TokenVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &TokenVerifier{keyFunc: jwks.Keyfunc, jwks: jwks}, nil
}

func (v *TokenVerifier) ValidateToken(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// Close stops the JWKS background refresh, if any.
func (v *TokenVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// IsRemoteImage reports whether the image reference is already hosted.
func IsRemoteImage(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// UploadImage pushes a local path or data URI to Cloudinary and returns the
// secure URL of the stored asset.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, image, folder string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", errors.New("image reference is empty")
	}
	res, err := cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"devevents"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// CloudinaryUploader stores event images in the events folder.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, image string) (string, error) {
	return UploadImage(ctx, u.cld, image, EventsFolder)
}
