package frames

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/banshee-data/sensorplay/internal/fsutil"
	"github.com/banshee-data/sensorplay/internal/monitoring"
)

// CompressedSuffix marks a zstd-compressed log. It is stripped before the
// sensor extension is examined, so "x.uld.zst" is a lidar file.
const CompressedSuffix = ".zst"

// FileReport summarises the decoding of one file.
type FileReport struct {
	Path        string
	Kind        Kind
	Records     int   // headers read
	Loaded      int   // frames retained
	Sentinel    int   // count==0 or timestamp==0
	Implausible int   // timestamp outside the plausible range
	Stop        error // why decoding ended early; nil when the data was consumed
	OpenErr     error // set when the file could not be read at all
}

// Skipped returns the number of records discarded without ending the file.
func (r FileReport) Skipped() int { return r.Sentinel + r.Implausible }

// Loader reads recorded logs from a FileSystem.
type Loader struct {
	fs fsutil.FileSystem
}

// NewLoader creates a Loader. A nil fsys selects the OS filesystem.
func NewLoader(fsys fsutil.FileSystem) *Loader {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &Loader{fs: fsys}
}

// readAll returns the decompressed contents of path. Data read before a
// mid-stream error is returned alongside the error.
func (l *Loader) readAll(path string) ([]byte, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, CompressedSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return io.ReadAll(r)
}

// load reads one file and decodes it. Only an open failure is an error;
// a read error after open decodes the bytes that arrived.
func load[T Timestamped](l *Loader, path string, format recordFormat[T]) ([]T, FileReport, error) {
	data, err := l.readAll(path)
	if err != nil && data == nil {
		report := FileReport{Path: path, Kind: format.kind, OpenErr: err}
		return nil, report, fmt.Errorf("failed to open %s file %s: %w", format.kind, path, err)
	}
	if err != nil {
		monitoring.Logf("[loader] %s: read error after %d bytes, decoding what arrived: %v", path, len(data), err)
	}

	frames, report := decodeRecords(data, format)
	report.Path = path
	return frames, report, nil
}

// LoadLidarFile decodes one lidar log.
func (l *Loader) LoadLidarFile(path string) ([]LidarFrame, FileReport, error) {
	return load(l, path, lidarFormat)
}

// LoadObjectFile decodes one detection log.
func (l *Loader) LoadObjectFile(path string) ([]ObjectFrame, FileReport, error) {
	return load(l, path, objectFormat)
}

// LoadLidar decodes paths in order and concatenates their frames. Files that
// cannot be opened are logged, reported, and otherwise left out.
func (l *Loader) LoadLidar(paths []string) (LidarFrames, []FileReport) {
	return loadAll(l, paths, lidarFormat)
}

// LoadObjects decodes paths in order and concatenates their frames. Files
// that cannot be opened are logged, reported, and otherwise left out.
func (l *Loader) LoadObjects(paths []string) (ObjectFrames, []FileReport) {
	return loadAll(l, paths, objectFormat)
}

func loadAll[T Timestamped](l *Loader, paths []string, format recordFormat[T]) (Collection[T], []FileReport) {
	var out Collection[T]
	reports := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		frames, report, err := load(l, path, format)
		reports = append(reports, report)
		if err != nil {
			monitoring.Logf("[loader] %v", err)
			continue
		}
		out = append(out, frames...)
		monitoring.Logf("[loader] %s: %d frames loaded, %d skipped (%d records)", path, report.Loaded, report.Skipped(), report.Records)
	}
	return out, reports
}
