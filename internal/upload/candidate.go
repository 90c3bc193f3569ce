// Package upload tracks the spreadsheet the user has picked or dropped
// into the sidebar. Only Excel workbooks are accepted.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	pErrors "github.com/zhubert/sheetchat/internal/errors"
)

// Accepted spreadsheet MIME types.
const (
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXLS  = "application/vnd.ms-excel"
)

// Extensions lists the accepted file extensions, compared case-insensitively.
var Extensions = []string{".xlsx", ".xls"}

// Candidate describes a file offered for upload. It carries metadata only;
// the workbook itself is never opened here.
type Candidate struct {
	Name      string
	Path      string
	SizeBytes int64
	MIMEType  string
}

// IsSpreadsheet reports whether a file with the given name and MIME type is
// an Excel workbook. Either signal is enough: some platforms report no MIME
// type for local files, and some files carry the wrong extension.
func IsSpreadsheet(name, mimeType string) bool {
	switch mimeType {
	case MIMEXLSX, MIMEXLS:
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Valid reports whether c may be selected.
func (c Candidate) Valid() bool {
	return IsSpreadsheet(c.Name, c.MIMEType)
}

// SizeMB formats the size the way the sidebar shows it, e.g. "2.00 MB".
func (c Candidate) SizeMB() string {
	return fmt.Sprintf("%.2f MB", float64(c.SizeBytes)/1024/1024)
}

// HumanSize formats the size with binary units, e.g. "2.0 MiB".
func (c Candidate) HumanSize() string {
	return humanize.IBytes(uint64(max(c.SizeBytes, 0)))
}

// Inspect builds a Candidate from a file on disk. The MIME type is sniffed
// from the file contents, so the result may be invalid even if the name
// looks right, and vice versa.
func Inspect(path string) (Candidate, error) {
	path = ExpandHome(path)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Candidate{}, pErrors.FileNotFound(path, err)
		}
		return Candidate{}, pErrors.FileUnreadable(path, err)
	}
	if !info.Mode().IsRegular() {
		return Candidate{}, pErrors.FileNotRegular(path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Candidate{}, pErrors.FileUnreadable(path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return Candidate{
		Name:      info.Name(),
		Path:      abs,
		SizeBytes: info.Size(),
		MIMEType:  baseMIME(mt.String()),
	}, nil
}

// baseMIME drops parameters such as "; charset=utf-8".
func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
