// Package codec reads source images and writes canonical PNG files.
package codec

import (
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec converts between files and pixel buffers.
type Codec interface {
	// Read decodes the image at path.
	Read(path string) (image.Image, error)
	// Write encodes img to path in the canonical format, creating parent directories.
	Write(path string, img image.Image) error
}

// Standard decodes the formats registered in the image package and writes PNG.
type Standard struct {
	encoder png.Encoder
}

// New returns the default codec.
func New() *Standard {
	return &Standard{encoder: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// Read sniffs the format from the file content, not from its extension.
func (s *Standard) Read(path string) (image.Image, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to detect format of %s", path)
	}
	if !mt.Is("image/png") && !mt.Is("image/jpeg") && !mt.Is("image/gif") {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s is %s", path, mt.String())
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", path)
	}
	return img, nil
}

// Write encodes img as PNG. The file is written next to its destination then renamed.
func (s *Standard) Write(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "unable to create directory of %s", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer os.Remove(tmp.Name())
	if err := s.encoder.Encode(tmp, img); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "unable to encode %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "unable to close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "unable to move %s", path)
	}
	return nil
}

var _ Codec = (*Standard)(nil)
