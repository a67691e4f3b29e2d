package util

import (
	"github.com/spf13/afero"
)

// CheckFileExists reports whether fpath can be stat'ed on fs.
func CheckFileExists(fs afero.Fs, fpath string) bool {
	_, e := fs.Stat(fpath)
	return e == nil
}

// CheckDirExists reports whether fpath exists on fs and is a directory.
func CheckDirExists(fs afero.Fs, fpath string) bool {
	ok, err := afero.DirExists(fs, fpath)
	return err == nil && ok
}
