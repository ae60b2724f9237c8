package knowledge

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Document is one reference document in the knowledge corpus
type Document struct {
	Name    string
	Content string
}

// LoadDir reads every .md and .txt file in dir as a corpus document.
// Binary source formats (the original store-hours spreadsheet, loyalty PDF
// and FAQ document) are expected to be exported to text before this runs;
// ingestion itself is out of scope here.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read knowledge directory", goerr.V("dir", dir))
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read knowledge document", goerr.V("path", path))
		}

		docs = append(docs, Document{
			Name:    entry.Name(),
			Content: string(data),
		})
	}

	if len(docs) == 0 {
		return nil, goerr.New("no knowledge documents found", goerr.V("dir", dir))
	}

	return docs, nil
}
