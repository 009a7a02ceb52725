package params

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DMarby/placeholder/internal/image"
	"github.com/gorilla/mux"
)

// Errors
var (
	ErrInvalidSize          = errors.New("Invalid Image Request")
	ErrInvalidFileExtension = errors.New("Invalid file extension")
)

// Size limits, inclusive
const (
	MinSize = 1
	MaxSize = 2000
)

// Params contains all the parameters for a request
type Params struct {
	Width     int
	Height    int
	Extension string
	Format    image.OutputFormat
}

// GetParams parses and validates the path parameters
func GetParams(r *http.Request) (*Params, error) {
	vars := mux.Vars(r)

	width, height, err := ParseSize(vars["width"], vars["height"])
	if err != nil {
		return nil, err
	}

	extension, format, err := ParseExtension(vars["extension"])
	if err != nil {
		return nil, err
	}

	return &Params{
		Width:     width,
		Height:    height,
		Extension: extension,
		Format:    format,
	}, nil
}

// ParseSize parses a raw width and height, which both have to be integers within [MinSize, MaxSize]
func ParseSize(rawWidth, rawHeight string) (width int, height int, err error) {
	width, ok := parseDimension(rawWidth)
	if !ok {
		return -1, -1, ErrInvalidSize
	}

	height, ok = parseDimension(rawHeight)
	if !ok {
		return -1, -1, ErrInvalidSize
	}

	return width, height, nil
}

func parseDimension(raw string) (int, bool) {
	// Only plain digits, no signs or whitespace
	if raw == "" {
		return -1, false
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return -1, false
		}
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return -1, false
	}

	return val, val >= MinSize && val <= MaxSize
}

// ParseExtension maps an optional file extension to an output format
// No extension means PNG
func ParseExtension(raw string) (string, image.OutputFormat, error) {
	extension := strings.ToLower(raw)

	switch extension {
	case "", ".png":
		return ".png", image.PNG, nil
	case ".jpg", ".jpeg":
		return extension, image.JPEG, nil
	case ".gif":
		return ".gif", image.GIF, nil
	default:
		return "", image.PNG, ErrInvalidFileExtension
	}
}
