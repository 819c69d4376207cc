// Package intake validates uploaded statement files and hands them to the
// analysis pipeline.
package intake

import (
	"context"
	"fmt"
	"strings"
)

// SupportedExtensions is the statement format allow-list.
var SupportedExtensions = map[string]bool{
	"csv":  true,
	"xlsx": true,
}

// UnsupportedFormatError rejects files outside the allow-list.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("intake: unsupported file format: %q", e.Filename)
}

// File is an uploaded bank statement export.
type File struct {
	Filename string
	Content  []byte
}

// Extension returns the lowercase file extension without the dot, or ""
// when the filename has none.
func (f *File) Extension() string {
	i := strings.LastIndex(f.Filename, ".")
	if i < 0 || i == len(f.Filename)-1 {
		return ""
	}
	return strings.ToLower(f.Filename[i+1:])
}

// IsSupported reports whether the file extension is on the allow-list.
func (f *File) IsSupported() bool {
	return SupportedExtensions[f.Extension()]
}

// Runner runs the analysis pipeline over validated statement bytes.
type Runner interface {
	Run(ctx context.Context, content []byte, ext string) ([]string, error)
}

// Service validates uploads and runs them through the pipeline.
type Service struct {
	runner Runner
}

// NewService creates the intake service around a pipeline runner.
func NewService(runner Runner) *Service {
	return &Service{runner: runner}
}

// Process validates the upload and returns the report pages.
func (s *Service) Process(ctx context.Context, filename string, content []byte) ([]string, error) {
	f := &File{Filename: filename, Content: content}
	if !f.IsSupported() {
		return nil, &UnsupportedFormatError{Filename: filename}
	}
	return s.runner.Run(ctx, f.Content, f.Extension())
}
