package frames

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/sensorplay/internal/fsutil"
	"github.com/banshee-data/sensorplay/internal/monitoring"
	"github.com/banshee-data/sensorplay/internal/security"
)

// SelectOptions controls which files of a recording directory are loaded.
// Start and End are timestamp strings in the recorder's filename format
// (for example "25-03-14-09-30-00"); the range is inclusive and compared
// lexicographically against the filename without its extension.
type SelectOptions struct {
	Dir             string
	Start, End      string
	LidarExtension  string // without the dot, e.g. "uld"
	ObjectExtension string
	LidarPrefix     string // e.g. "lidar_0_"
	ObjectPrefix    string // e.g. "detectinfo_"
}

// Selection lists the files chosen for each stream, sorted by path.
type Selection struct {
	Lidar   []string
	Objects []string
	Ignored []string // entries skipped for their extension or location
}

// FileExtension returns the text after the last '.' of name, or "" when
// there is none.
func FileExtension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return ""
	}
	return name[dot+1:]
}

// RemoveFileExtension returns name up to its last '.'.
func RemoveFileExtension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name
	}
	return name[:dot]
}

// inRange reports whether stem lies within [prefix+start, prefix+end].
func inRange(stem, prefix, start, end string) bool {
	return stem >= prefix+start && stem <= prefix+end
}

// SelectFiles lists opts.Dir and returns the lidar and detection logs whose
// names fall within the requested range. Entries with other extensions are
// ignored. Symlinked entries must resolve inside the directory.
func SelectFiles(fsys fsutil.FileSystem, opts SelectOptions) (Selection, error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	var sel Selection

	entries, err := fsys.ReadDir(opts.Dir)
	if err != nil {
		return sel, fmt.Errorf("failed to read data directory %s: %w", opts.Dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(opts.Dir, name)

		if entry.Type()&fs.ModeSymlink != 0 {
			if err := security.ValidatePathWithinDirectory(path, opts.Dir); err != nil {
				monitoring.Logf("[select] ignoring %s: %v", name, err)
				sel.Ignored = append(sel.Ignored, path)
				continue
			}
		}

		base := strings.TrimSuffix(name, CompressedSuffix)
		stem := RemoveFileExtension(base)
		switch FileExtension(base) {
		case opts.LidarExtension:
			if inRange(stem, opts.LidarPrefix, opts.Start, opts.End) {
				sel.Lidar = append(sel.Lidar, path)
			}
		case opts.ObjectExtension:
			if inRange(stem, opts.ObjectPrefix, opts.Start, opts.End) {
				sel.Objects = append(sel.Objects, path)
			}
		default:
			monitoring.Logf("[select] ignoring %s: extension is not .%s or .%s", name, opts.LidarExtension, opts.ObjectExtension)
			sel.Ignored = append(sel.Ignored, path)
		}
	}

	sort.Strings(sel.Lidar)
	sort.Strings(sel.Objects)
	return sel, nil
}
