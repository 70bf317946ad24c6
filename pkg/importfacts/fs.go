package importfacts

import (
	"io/fs"
	"os"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=fs.go -destination=mocks/fs.gen.go -package=mocks

// FS is the file system access needed to load import summaries.
type FS interface {
	// Stat returns file information for path.
	Stat(path string) (fs.FileInfo, error)

	// ReadDir lists the entries of a directory.
	ReadDir(path string) ([]fs.DirEntry, error)

	// ReadFile reads the contents of a file.
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

// NewOSFS returns an FS backed by the operating system.
func NewOSFS() FS {
	return osFS{}
}

func (osFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (osFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
