package skills

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/aben/console/internal/pkg/apperr"
)

const (
	maxFileBytes = 2 << 20
	rootFileName = "skill.md"
)

var archiveSuffix = regexp.MustCompile(`(?i)\.(skill|zip)$`)

// File is one markdown document of a bundle. The root document has an empty path.
type File struct {
	Path        string
	Name        *string
	Description *string
	Content     string
}

// Bundle is a parsed skill archive.
type Bundle struct {
	SkillKey string
	Files    []File
}

func normalizePath(p string) string {
	return strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
}

func keyFromFileName(name string) string {
	base := archiveSuffix.ReplaceAllString(path.Base(normalizePath(name)), "")
	if base == "" || base == "." {
		return "skill"
	}
	return base
}

// ParseArchive reads the markdown files of a zip archive. The skill key is
// the single top-level directory shared by every file, or the upload file
// name without its .skill/.zip extension.
func ParseArchive(fileName string, data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, apperr.ErrInvalidArchive
	}

	type rawFile struct{ path, content string }
	var files []rawFile
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		p := normalizePath(f.Name)
		if strings.HasPrefix(p, "__MACOSX/") || !strings.HasSuffix(strings.ToLower(p), ".md") {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, apperr.ErrInvalidArchive.WithMessage(fmt.Sprintf("cannot read %s", p))
		}
		files = append(files, rawFile{path: p, content: content})
	}
	if len(files) == 0 {
		return nil, apperr.ErrNoMarkdownFiles
	}

	topLevels := map[string]struct{}{}
	for _, f := range files {
		if dir, _, nested := strings.Cut(f.path, "/"); nested {
			topLevels[dir] = struct{}{}
		} else {
			topLevels[""] = struct{}{}
		}
	}

	key := keyFromFileName(fileName)
	prefix := ""
	if len(topLevels) == 1 {
		for dir := range topLevels {
			if dir != "" {
				key = dir
				prefix = dir + "/"
			}
		}
	}

	root := File{Path: "", Name: &key}
	rest := make([]File, 0, len(files))
	foundRoot := false
	for _, f := range files {
		rel := normalizePath(strings.TrimPrefix(f.path, prefix))
		if !foundRoot && strings.ToLower(rel) == rootFileName {
			foundRoot = true
			fm := ParseFrontmatter(f.content)
			if fm.Name != nil {
				root.Name = fm.Name
			}
			root.Description = fm.Description
			root.Content = f.content
			continue
		}
		rest = append(rest, File{Path: rel, Content: f.content})
	}

	return &Bundle{SkillKey: key, Files: append([]File{root}, rest...)}, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxFileBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxFileBytes {
		return "", fmt.Errorf("entry exceeds %d bytes", maxFileBytes)
	}
	return string(b), nil
}
