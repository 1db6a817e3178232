package database

import (
	"os"
)

// createDirIfNotExists creates a directory if it doesn't exist
func createDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// boolToInt maps a bool onto SQLite's 0/1 integer convention
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
