package steps

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownStep      = errors.New("unknown step")
	ErrAmbiguousMask    = errors.New("several masks match the same image")
	ErrDuplicateImageID = errors.New("duplicate image id in study")
	ErrIDOverflow       = errors.New("id does not fit in zfill digits")
	ErrEmptyID          = errors.New("extracted id is empty")
	ErrInvalidTree      = errors.New("invalid dataset tree")
	ErrNoImage          = errors.New("no image found")
)
