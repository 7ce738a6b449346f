package add

import (
	"os"
)

func checkPathExists(localPath string) (bool, error) {
	_, err := os.Stat(localPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ensureDir creates dir and its parents. It reports whether dir already existed.
func ensureDir(dir string) (bool, error) {
	existed, err := checkPathExists(dir)
	if err != nil {
		return false, &DownloadError{Type: ErrorTypeFilesystem, Message: "failed to stat directory", Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, &DownloadError{Type: ErrorTypeFilesystem, Message: "failed to create directory", Err: err}
	}

	return existed, nil
}
