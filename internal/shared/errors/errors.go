package errors

import "errors"

var (
	ErrMissingFeedURL  = errors.New("FEED_URL must be an absolute http(s) URL")
	ErrInvalidLimit    = errors.New("title and description limits must leave room for the truncation marker")
	ErrInvalidInterval = errors.New("update and slide intervals must be positive")
	ErrUnauthorized    = errors.New("unauthorized user")
	ErrRefreshBusy     = errors.New("refresh already in progress")
)

// Refresh-cycle taxonomy. NetworkError and ParseError abort the current
// refresh; ImageLoadError and QrEncodeError degrade a single item.
var (
	ErrNetwork   = errors.New("network error")
	ErrParse     = errors.New("parse error")
	ErrImageLoad = errors.New("image load error")
	ErrQREncode  = errors.New("qr encode error")
)

// Kind names the taxonomy class of err, or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrImageLoad):
		return "image_load"
	case errors.Is(err, ErrQREncode):
		return "qr_encode"
	default:
		return "unknown"
	}
}
