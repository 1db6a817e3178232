package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS

var (
	loadMigrationsOnce sync.Once
	embeddedMigrations []*MigrationFile
	embeddedLoadErr    error
)

// getEmbeddedMigrationFiles returns the embedded migrations sorted by version.
// The directory is scanned once per process.
func getEmbeddedMigrationFiles() ([]*MigrationFile, error) {
	loadMigrationsOnce.Do(func() {
		embeddedMigrations, embeddedLoadErr = scanMigrations(EmbeddedMigrationsFS, "migrations")
	})
	if embeddedLoadErr != nil {
		return nil, embeddedLoadErr
	}
	return append([]*MigrationFile(nil), embeddedMigrations...), nil
}

func scanMigrations(fsys fs.FS, dir string) ([]*MigrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var migrations []*MigrationFile
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, err := parseMigrationFileName(entry.Name())
		if err != nil {
			log.Printf("[DB] Warning: skipping migration %s: %v", entry.Name(), err)
			continue
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, m.FileName, m.Version)
		}
		seen[m.Version] = m.FileName
		m.FilePath = path.Join(dir, m.FileName)
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// parseMigrationFileName splits NNNN_main_description.sql
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	name, ok := strings.CutSuffix(fileName, ".sql")
	if !ok {
		return nil, fmt.Errorf("not a .sql file: %s", fileName)
	}
	parts := strings.SplitN(name, "_", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected NNNN_main_description.sql, got %s", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad version %q in %s", parts[0], fileName)
	}
	if MigrationType(parts[1]) != MigrationTypeMain {
		return nil, fmt.Errorf("unknown migration type %q in %s", parts[1], fileName)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Type:        MigrationTypeMain,
		Description: parts[2],
	}, nil
}

func readEmbeddedMigrationContent(m *MigrationFile) (string, error) {
	content, err := fs.ReadFile(EmbeddedMigrationsFS, m.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %s: %w", m.FilePath, err)
	}
	return string(content), nil
}
