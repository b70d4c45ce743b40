/*
NAME
  senders_test.go

DESCRIPTION
  senders_test.go contains tests for the fileSender implementation in
  senders.go.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package revid

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFileSenderSingleFile checks that a fileSender with multiFile false
// keeps writing to the same file across multiple writes.
func TestFileSenderSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip-")

	s, err := newFileSender((*testLogger)(t), path, false, 0)
	if err != nil {
		t.Fatalf("did not expect error from newFileSender: %v", err)
	}

	const nWrites = 3
	for i := 0; i < nWrites; i++ {
		_, err := s.Write([]byte("frame"))
		if err != nil {
			t.Fatalf("did not expect error from write %d: %v", i, err)
		}
	}

	if err := s.Close(); err != nil {
		t.Fatalf("did not expect error from Close: %v", err)
	}

	files, err := filepath.Glob(dir + "/*")
	if err != nil {
		t.Fatalf("did not expect error from Glob: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected a single output file, got %d", len(files))
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("did not expect error reading output file: %v", err)
	}
	if len(data) != len("frame")*nWrites {
		t.Errorf("unexpected output file size: got %d, want %d", len(data), len("frame")*nWrites)
	}
}

// TestFileSenderMultiFile checks that a fileSender with multiFile true
// creates a new file for every write.
func TestFileSenderMultiFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip-")

	s, err := newFileSender((*testLogger)(t), path, true, 0)
	if err != nil {
		t.Fatalf("did not expect error from newFileSender: %v", err)
	}

	// fileSender names files by the current second, so space writes apart to
	// guarantee distinct file names.
	const nWrites = 3
	for i := 0; i < nWrites; i++ {
		_, err := s.Write([]byte("frame"))
		if err != nil {
			t.Fatalf("did not expect error from write %d: %v", i, err)
		}
		time.Sleep(1100 * time.Millisecond)
	}

	files, err := filepath.Glob(dir + "/*")
	if err != nil {
		t.Fatalf("did not expect error from Glob: %v", err)
	}
	if len(files) != nWrites {
		t.Fatalf("expected %d output files, got %d", nWrites, len(files))
	}
}
