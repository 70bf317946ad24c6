package importfacts_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/importfacts"
	"github.com/Sumatoshi-tech/deptrim/pkg/importfacts/mocks"
)

func writeSummary(t *testing.T, dir, name, content string, modTime time.Time) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestSupplier_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stamp := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	writeSummary(t, dir, "B.imports", "import X1 ( x )\n", stamp)
	writeSummary(t, dir, "A.Inner.imports", "import Data.Orphans ( )\n", stamp.Add(time.Hour))
	writeSummary(t, dir, "notes.txt", "ignored", stamp)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Sub.imports"), 0o750))

	files, err := importfacts.NewSupplier(importfacts.NewOSFS()).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "A.Inner.imports", files[0].Name)
	assert.Equal(t, depmodel.ModuleName("A.Inner"), files[0].Module)
	assert.True(t, files[0].ModTime.Equal(stamp.Add(time.Hour)))
	assert.True(t, files[0].Facts[0].IsEmpty())

	assert.Equal(t, depmodel.ModuleName("B"), files[1].Module)
	assert.Equal(t, depmodel.ModuleName("X1"), files[1].Facts[0].Imported)
	assert.Equal(t, depmodel.ModuleName("B"), files[1].Facts[0].Importer)
}

func TestSupplier_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).
		Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, importfacts.ErrOutputDirMissing)
}

func TestSupplier_NotADirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSummary(t, dir, "Main.imports", "", time.Now())

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).
		Load(context.Background(), filepath.Join(dir, "Main.imports"))
	require.ErrorIs(t, err, importfacts.ErrOutputDirMissing)
}

func TestSupplier_NoSummaries(t *testing.T) {
	t.Parallel()

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).Load(context.Background(), t.TempDir())
	require.ErrorIs(t, err, importfacts.ErrNoFactFiles)
}

func TestSupplier_ParseErrorNamesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSummary(t, dir, "Broken.imports", "import Good ( g )\nimport (\n", time.Now())

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).Load(context.Background(), dir)

	var pe *importfacts.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, filepath.Join(dir, "Broken.imports"), pe.File)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, err.Error(), "Broken.imports:2")
}

func TestSupplier_InvalidFileName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSummary(t, dir, "lower.imports", "", time.Now())

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).Load(context.Background(), dir)

	var pe *importfacts.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestSupplier_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSummary(t, dir, "A.imports", "", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importfacts.NewSupplier(importfacts.NewOSFS()).Load(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSupplier_StatFailureIsNotMissingDir(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFS(ctrl)

	denied := errors.New("permission denied")
	mockFS.EXPECT().Stat("/build").Return(nil, denied)

	_, err := importfacts.NewSupplier(mockFS).Load(context.Background(), "/build")
	require.ErrorIs(t, err, denied)
	assert.NotErrorIs(t, err, importfacts.ErrOutputDirMissing)
}

func TestSupplier_ReadFailurePropagates(t *testing.T) {
	t.Parallel()

	memFS := fstest.MapFS{
		"build":           &fstest.MapFile{Mode: fs.ModeDir},
		"build/A.imports": &fstest.MapFile{Data: []byte("import B ( b )\n")},
	}

	dirInfo, err := memFS.Stat("build")
	require.NoError(t, err)

	fileInfo, err := memFS.Stat("build/A.imports")
	require.NoError(t, err)

	entries, err := memFS.ReadDir("build")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFS(ctrl)

	readErr := errors.New("io failure")

	gomock.InOrder(
		mockFS.EXPECT().Stat("build").Return(dirInfo, nil),
		mockFS.EXPECT().ReadDir("build").Return(entries, nil),
		mockFS.EXPECT().Stat(filepath.Join("build", "A.imports")).Return(fileInfo, nil),
		mockFS.EXPECT().ReadFile(filepath.Join("build", "A.imports")).Return(nil, readErr),
	)

	_, err = importfacts.NewSupplier(mockFS).Load(context.Background(), "build")
	require.ErrorIs(t, err, readErr)
}
