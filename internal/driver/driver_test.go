package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConvertWritesMirroredOutput(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.asf"), []byte("hello"))
	writeFile(t, filepath.Join(src, "sub", "b.asf"), []byte("world"))
	writeFile(t, filepath.Join(src, "ignore.txt"), []byte("nope"))

	log := zap.NewNop()
	summary, err := Convert(context.Background(), log, src, dst, ".asf", func(data []byte) ([]byte, error) {
		out := append([]byte{}, data...)
		return append(out, '!'), nil
	}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if summary.Converted != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 2 converted, 0 failed", summary)
	}

	got, err := os.ReadFile(filepath.Join(dst, "a.msf"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "hello!" {
		t.Fatalf("output = %q, want %q", got, "hello!")
	}
	if _, err := os.Stat(filepath.Join(dst, "sub", "b.msf")); err != nil {
		t.Fatalf("nested output missing: %v", err)
	}
}

func TestConvertCollectsPerFileErrors(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "good.asf"), []byte("ok"))
	writeFile(t, filepath.Join(src, "bad.asf"), []byte("bad"))

	log := zap.NewNop()
	summary, err := Convert(context.Background(), log, src, dst, ".asf", func(data []byte) ([]byte, error) {
		if string(data) == "bad" {
			return nil, errBoom
		}
		return data, nil
	}, false)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 1 || len(summary.Errors) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestConvertMapProducesMMFSiblings(t *testing.T) {
	root := t.TempDir()
	mapData := buildMinimalMapFixture(t)
	writeFile(t, filepath.Join(root, "prontera.map"), mapData)

	log := zap.NewNop()
	summary, err := ConvertMap(context.Background(), log, root, filepath.Join(root, "does-not-exist.ini"), false)
	if err != nil {
		t.Fatalf("ConvertMap: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(root, "prontera.mmf")); err != nil {
		t.Fatalf("expected prontera.mmf: %v", err)
	}
}

func TestConvertDeletesOriginalOnSuccess(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	srcPath := filepath.Join(src, "a.asf")
	writeFile(t, srcPath, []byte("hello"))

	log := zap.NewNop()
	summary, err := Convert(context.Background(), log, src, dst, ".asf", func(data []byte) ([]byte, error) {
		return data, nil
	}, true)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(srcPath); !os.IsNotExist(err) {
		t.Fatalf("expected source to be removed, stat err = %v", err)
	}
}

func TestConvertMapDeletesOriginalOnSuccess(t *testing.T) {
	root := t.TempDir()
	mapPath := filepath.Join(root, "prontera.map")
	writeFile(t, mapPath, buildMinimalMapFixture(t))

	log := zap.NewNop()
	summary, err := ConvertMap(context.Background(), log, root, filepath.Join(root, "does-not-exist.ini"), true)
	if err != nil {
		t.Fatalf("ConvertMap: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(mapPath); !os.IsNotExist(err) {
		t.Fatalf("expected source to be removed, stat err = %v", err)
	}
}

func TestConvertMediaNoMatchesIsNoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "readme.txt"), []byte("nothing to do"))

	log := zap.NewNop()
	summary, err := ConvertMedia(context.Background(), log, root, false)
	if err != nil {
		t.Fatalf("ConvertMedia: %v", err)
	}
	if summary.Converted != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want no-op", summary)
	}
}

var errBoom = fmtErr("boom")

type fmtErr string

func (e fmtErr) Error() string { return string(e) }

func buildMinimalMapFixture(t *testing.T) []byte {
	t.Helper()
	const tileDataOffset = 16512
	data := make([]byte, tileDataOffset)
	copy(data, "MAP File Ver")
	// columns/rows left at 0: zero tiles, a valid but minimal map.
	return data
}
