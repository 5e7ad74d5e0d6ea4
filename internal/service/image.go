package service

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/dtroode/recipe-server/internal/model"
)

const (
	imageDir = "uploads/recipe"

	msgImageEmpty   = "The submitted file is empty."
	msgImageInvalid = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var (
	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}
	imageExtPattern   = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)
)

// inspectImage accepts data only when it sniffs as an allowed image type and
// its header decodes.
func inspectImage(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, model.NewValidationError("image", msgImageEmpty)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, model.NewValidationError("image", msgImageInvalid)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, model.NewValidationError("image", msgImageInvalid)
	}

	return mt, nil
}

// imageObjectKey names a fresh object under uploads/recipe/. The extension of
// filename is kept when it is a plain alphanumeric one.
func imageObjectKey(filename string, mt *mimetype.MIME) string {
	ext := path.Ext(strings.ReplaceAll(filename, `\`, "/"))
	if !imageExtPattern.MatchString(ext) {
		ext = mt.Extension()
	}
	return path.Join(imageDir, uuid.NewString()+ext)
}
