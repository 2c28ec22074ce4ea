package markdown

import "errors"

// Sentinel errors.
var (
	ErrExpand  = errors.New("expand document")
	ErrConvert = errors.New("convert markdown to HTML")
	ErrWrite   = errors.New("write output")
)
