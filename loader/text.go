package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextSource returns the full text of a statement.
type TextSource interface {
	Text(ctx context.Context, st Statement) (string, error)
}

// FileText reads PDF statements through their text layer and ".txt"
// statements verbatim.
type FileText struct{}

// Text reads the whole statement into memory and closes the file before
// returning.
func (FileText) Text(ctx context.Context, st Statement) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(st.Path)) {
	case ".pdf":
		return pdfText(st.Path)
	default:
		b, err := os.ReadFile(st.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", st.Path, err)
		}
		return string(b), nil
	}
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return string(b), nil
}

// StatementText returns the text of st using the loader's TextSource.
func (l *Loader) StatementText(ctx context.Context, st Statement) (string, error) {
	return l.Text.Text(ctx, st)
}
