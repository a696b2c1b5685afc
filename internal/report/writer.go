package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output file names inside the report directory.
const (
	JSONFileName     = "repo_portfolio_audit.json"
	MarkdownFileName = "repo_portfolio_audit.md"
)

// WriteFiles renders the document into dir, creating it when needed, and returns the written paths.
func WriteFiles(dir string, doc Document) ([]string, error) {
	jsonData, err := RenderJSON(doc)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{name: JSONFileName, data: jsonData},
		{name: MarkdownFileName, data: []byte(RenderMarkdown(doc))},
	}
	paths := make([]string, 0, len(outputs))
	for _, output := range outputs {
		path := filepath.Join(dir, output.name)
		if err := os.WriteFile(path, output.data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteTo renders both documents to w, JSON first.
func WriteTo(w io.Writer, doc Document) error {
	jsonData, err := RenderJSON(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	if _, err := io.WriteString(w, "\n"+RenderMarkdown(doc)); err != nil {
		return fmt.Errorf("failed to write Markdown report: %w", err)
	}
	return nil
}
