package utils

import (
	"meetspot/core/constants"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shareCodeAlphabet drops 0/O, 1/I/L and lowercase so codes survive
// being read aloud or handwritten.
const shareCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateShareCode returns a 6-character human-shareable event code.
func GenerateShareCode() (string, error) {
	return gonanoid.Generate(shareCodeAlphabet, constants.ShareCodeLength)
}

// Slugify builds a URL-friendly slug from an event title.
func Slugify(title string) string {
	return slug.Make(title)
}
