/*
NAME
  senders.go

DESCRIPTION
  See Readme.md

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package revid

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/ausocean/utils/logging"
)

// fileSender implements io.WriteCloser for a local file destination.
type fileSender struct {
	file        *os.File
	multiFile   bool
	maxFileSize uint // maxFileSize is in bytes. A size of 0 means there is no size limit.
	path        string
	log         logging.Logger
}

// newFileSender returns a new fileSender. Setting multi true will write a new
// file for each write to this sender.
func newFileSender(l logging.Logger, path string, multiFile bool, maxFileSize uint) (*fileSender, error) {
	return &fileSender{
		path:        path,
		log:         l,
		multiFile:   multiFile,
		maxFileSize: maxFileSize,
	}, nil
}

// Write implements io.Writer.
func (s *fileSender) Write(d []byte) (int, error) {
	s.log.Debug("checking disk space")
	var stat syscall.Statfs_t
	if err := syscall.Statfs("/", &stat); err != nil {
		return 0, fmt.Errorf("could not read system disk space, abandoning write: %w", err)
	}
	availableSpace := stat.Bavail * uint64(stat.Bsize)
	totalSpace := stat.Blocks * uint64(stat.Bsize)
	s.log.Debug("available, total disk space in bytes", "availableSpace", availableSpace, "totalSpace", totalSpace)
	var spaceBuffer uint64 = 50000000 // 50MB.
	if availableSpace < spaceBuffer {
		return 0, fmt.Errorf("reached limit of disk space with a buffer of %v bytes, abandoning write", spaceBuffer)
	}

	// If the write will exceed the max file size, close the file so that a new one can be created.
	if s.maxFileSize != 0 && s.file != nil {
		fileInfo, err := s.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("could not read files stats: %w", err)
		}
		size := uint(fileInfo.Size())
		s.log.Debug("checked file size", "bytes", size)
		if size+uint(len(d)) > s.maxFileSize {
			s.log.Debug("new write would exceed max file size, closing existing file", "maxFileSize", s.maxFileSize)
			s.file.Close()
			s.file = nil
		}
	}

	if s.file == nil {
		fileName := s.path + time.Now().Format("2006-01-02_15-04-05")
		s.log.Debug("creating new output file", "multiFile", s.multiFile, "fileName", fileName)
		f, err := os.Create(fileName)
		if err != nil {
			return 0, fmt.Errorf("could not create file to write media to: %w", err)
		}
		s.file = f
	}

	s.log.Debug("writing to output file", "bytes", len(d))
	n, err := s.file.Write(d)
	if err != nil {
		return n, err
	}

	if s.multiFile {
		s.file.Close()
		s.file = nil
	}

	return n, nil
}

func (s *fileSender) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
