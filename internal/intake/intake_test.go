package intake

import (
	"context"
	"errors"
	"testing"
)

type mockRunner struct {
	RunFunc func(ctx context.Context, content []byte, ext string) ([]string, error)

	gotExt     string
	gotContent []byte
}

func (m *mockRunner) Run(ctx context.Context, content []byte, ext string) ([]string, error) {
	m.gotExt = ext
	m.gotContent = content
	if m.RunFunc != nil {
		return m.RunFunc(ctx, content, ext)
	}
	return []string{"ok"}, nil
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		filename  string
		ext       string
		supported bool
	}{
		{"statement.xlsx", "xlsx", true},
		{"statement.CSV", "csv", true},
		{"export.2025.csv", "csv", true},
		{"statement.pdf", "pdf", false},
		{"noextension", "", false},
		{"trailingdot.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			f := &File{Filename: tt.filename}
			if got := f.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
			if got := f.IsSupported(); got != tt.supported {
				t.Errorf("IsSupported() = %v, want %v", got, tt.supported)
			}
		})
	}
}

func TestProcessRejectsUnsupported(t *testing.T) {
	runner := &mockRunner{}
	service := NewService(runner)

	_, err := service.Process(context.Background(), "statement.pdf", []byte("x"))

	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedFormatError", err)
	}
	if runner.gotContent != nil {
		t.Error("runner invoked for unsupported file")
	}
}

func TestProcessHandsOffBytes(t *testing.T) {
	runner := &mockRunner{}
	service := NewService(runner)

	pages, err := service.Process(context.Background(), "Выписка.XLSX", []byte("payload"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(pages) != 1 || pages[0] != "ok" {
		t.Errorf("pages = %v", pages)
	}
	if runner.gotExt != "xlsx" {
		t.Errorf("extension = %q, want xlsx", runner.gotExt)
	}
	if string(runner.gotContent) != "payload" {
		t.Errorf("content = %q", runner.gotContent)
	}
}

func TestProcessPropagatesPipelineError(t *testing.T) {
	wantErr := errors.New("boom")
	runner := &mockRunner{
		RunFunc: func(ctx context.Context, content []byte, ext string) ([]string, error) {
			return nil, wantErr
		},
	}

	_, err := NewService(runner).Process(context.Background(), "a.csv", []byte("x"))
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}
