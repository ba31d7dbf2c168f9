package frames

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sensorplay/internal/fsutil"
)

func defaultSelect(dir, start, end string) SelectOptions {
	return SelectOptions{
		Dir:             dir,
		Start:           start,
		End:             end,
		LidarExtension:  "uld",
		ObjectExtension: "udd",
		LidarPrefix:     "lidar_0_",
		ObjectPrefix:    "detectinfo_",
	}
}

func TestFileExtensionHelpers(t *testing.T) {
	tests := []struct {
		name, ext, stem string
	}{
		{"lidar_0_25-01-01.uld", "uld", "lidar_0_25-01-01"},
		{"a.b.udd", "udd", "a.b"},
		{"README", "", "README"},
		{"trailing.", "", "trailing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ext, FileExtension(tt.name), tt.name)
		assert.Equal(t, tt.stem, RemoveFileExtension(tt.name), tt.name)
	}
}

func TestSelectFilesByRange(t *testing.T) {
	muteLogs(t)
	fsys := fsutil.NewMemoryFileSystem()
	for _, name := range []string{
		"lidar_0_25-03-14-09-00-00.uld",
		"lidar_0_25-03-14-09-30-00.uld",
		"lidar_0_25-03-14-10-00-00.uld",
		"lidar_0_25-03-14-11-00-00.uld",
		"detectinfo_25-03-14-09-30-00.udd",
		"detectinfo_25-03-14-10-00-00.udd.zst",
		"detectinfo_25-03-14-12-00-00.udd",
		"notes.txt",
	} {
		require.NoError(t, fsys.WriteFile(filepath.Join("/data", name), nil, 0644))
	}
	require.NoError(t, fsys.MkdirAll("/data/old.uld", 0755))

	sel, err := SelectFiles(fsys, defaultSelect("/data", "25-03-14-09-30-00", "25-03-14-10-00-00"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/lidar_0_25-03-14-09-30-00.uld",
		"/data/lidar_0_25-03-14-10-00-00.uld",
	}, sel.Lidar)
	assert.Equal(t, []string{
		"/data/detectinfo_25-03-14-09-30-00.udd",
		"/data/detectinfo_25-03-14-10-00-00.udd.zst",
	}, sel.Objects)
	assert.Equal(t, []string{"/data/notes.txt"}, sel.Ignored)
}

func TestSelectFilesMissingDirectory(t *testing.T) {
	_, err := SelectFiles(fsutil.NewMemoryFileSystem(), defaultSelect("/missing", "a", "b"))
	assert.Error(t, err)
}

func TestSelectFilesRejectsEscapingSymlink(t *testing.T) {
	muteLogs(t)
	root := t.TempDir()
	dataDir := filepath.Join(root, "uam_data")
	outside := filepath.Join(root, "outside.uld")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(outside, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "lidar_0_1.uld"), nil, 0644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dataDir, "lidar_0_2.uld")))

	sel, err := SelectFiles(nil, defaultSelect(dataDir, "0", "9"))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dataDir, "lidar_0_1.uld")}, sel.Lidar)
	assert.Equal(t, []string{filepath.Join(dataDir, "lidar_0_2.uld")}, sel.Ignored)
}
