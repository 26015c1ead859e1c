package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File writes each record as an indented JSON document under
// <baseDir>/<msg_name>/<UTC timestamp>[_N].json, reproducing
// module_aero_parser.cpp's process_final_pkt file-writing branch: the
// directory is created on demand, the msg_name is slash-sanitized before
// being used as a path component (a real bug-for-bug detail preserved from
// the original, since some dictionary names legitimately contain '/'), and
// a numeric suffix is appended on filename collision within the same
// second.
type File struct {
	baseDir string
}

// NewFile returns a File sink rooted at baseDir.
func NewFile(baseDir string) *File { return &File{baseDir: baseDir} }

// Send writes record to disk. record must carry "msg_name" (string) and
// "timestamp" (a Unix-epoch float64, matching the rest of the pipeline);
// a record missing either is an error, since the caller is expected to
// only route non-suppressed, already-classified records here.
func (f *File) Send(ctx context.Context, record map[string]any) error {
	name, ok := record["msg_name"].(string)
	if !ok || name == "" {
		return fmt.Errorf("aero: file sink requires a msg_name")
	}
	name = sanitizeMsgName(name)

	ts, ok := record["timestamp"].(float64)
	if !ok {
		return fmt.Errorf("aero: file sink requires a timestamp")
	}

	dir := filepath.Join(f.baseDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("aero: creating sink directory %s: %w", dir, err)
	}

	stamp := time.Unix(int64(ts), 0).UTC().Format("20060102T150405") + "Z"
	path := filepath.Join(dir, stamp+".json")
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.json", stamp, i))
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("aero: marshaling record for file sink: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Close is a no-op; File holds no persistent resource.
func (f *File) Close() error { return nil }

func sanitizeMsgName(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
