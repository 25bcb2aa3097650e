package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shantanuseth8203/Data-Visualization/internal/dataprocessing"
)

// SnapshotKind tells a workbook snapshot from a CSV directory snapshot
type SnapshotKind string

const (
	KindWorkbook SnapshotKind = "workbook"
	KindCSVDir   SnapshotKind = "csv_dir"
)

// FileInfo represents information about a discovered snapshot
type FileInfo struct {
	Path    string       `json:"path"`
	Name    string       `json:"name"`
	Kind    SnapshotKind `json:"kind"`
	Size    int64        `json:"size"`
	ModTime time.Time    `json:"mod_time"`
}

// Discovery finds snapshots below a base directory
type Discovery struct {
	basePath string
	csvFiles dataprocessing.CSVFiles
}

// NewDiscovery creates a new discovery instance. Relative directories passed
// to its methods are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath, csvFiles: dataprocessing.DefaultCSVFiles()}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindWorkbooks finds the .xlsx workbooks in dir, oldest first. Office lock
// files (~$name.xlsx) are skipped.
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".xlsm" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Kind:    KindWorkbook,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sortByModTime(files)
	return files, nil
}

// FindCSVSnapshots finds dir itself and its direct subdirectories when they
// hold both the sales and products CSV files. Size is the sum of the CSV
// files and ModTime the newest of them.
func (d *Discovery) FindCSVSnapshots(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	candidates := []string{fullPath}
	for _, entry := range entries {
		if entry.IsDir() {
			candidates = append(candidates, filepath.Join(fullPath, entry.Name()))
		}
	}

	var snapshots []FileInfo
	for _, candidate := range candidates {
		if snap, ok := d.csvSnapshot(candidate); ok {
			snapshots = append(snapshots, snap)
		}
	}

	sortByModTime(snapshots)
	return snapshots, nil
}

func (d *Discovery) csvSnapshot(dir string) (FileInfo, bool) {
	snap := FileInfo{Path: dir, Name: filepath.Base(dir), Kind: KindCSVDir}
	for _, name := range []string{d.csvFiles.Sales, d.csvFiles.Products, d.csvFiles.Customers} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			if name == d.csvFiles.Customers {
				continue
			}
			return FileInfo{}, false
		}
		snap.Size += info.Size()
		if info.ModTime().After(snap.ModTime) {
			snap.ModTime = info.ModTime()
		}
	}
	return snap, true
}

// FindSnapshots lists every workbook and CSV snapshot in dir, oldest first
func (d *Discovery) FindSnapshots(dir string) ([]FileInfo, error) {
	workbooks, err := d.FindWorkbooks(dir)
	if err != nil {
		return nil, err
	}
	csvDirs, err := d.FindCSVSnapshots(dir)
	if err != nil {
		return nil, err
	}
	all := append(workbooks, csvDirs...)
	sortByModTime(all)
	return all, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

func sortByModTime(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
}
