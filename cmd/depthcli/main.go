/*
DESCRIPTION
  depthcli is a standalone command that reads an MJPEG file and writes a
  depth map for every frame to an output file, by driving the depth
  filter directly over the file's lexed frames.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package depthcli is a command line driver for the depth filter, useful
// for running the motion and depth estimators over a recorded MJPEG file
// without a netsender connection.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/depth/codec/jpeg"
	"github.com/ausocean/depth/filter"
	"github.com/ausocean/depth/revid/config"
	"github.com/ausocean/utils/logging"
)

// Logging configuration.
const (
	logPath      = "depthcli.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

const pkg = "depthcli: "

func main() {
	inPath := flag.String("in", "", "path to an MJPEG input file")
	outPath := flag.String("out", "", "path to write depth map frames to")
	width := flag.Uint("width", 0, "frame width in pixels")
	height := flag.Uint("height", 0, "frame height in pixels")
	quality := flag.Uint("quality", 50, "motion search quality, 0-100")
	halfPixel := flag.Bool("halfpixel", false, "refine motion vectors to half-pixel precision")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *inPath == "" || *outPath == "" || *width == 0 || *height == 0 {
		log.Fatal(pkg + "in, out, width and height flags are all required")
	}

	in, err := os.Open(*inPath)
	if err != nil {
		log.Fatal(pkg+"could not open input file", "error", err)
	}
	defer in.Close()

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(pkg+"could not create output file", "error", err)
	}
	defer out.Close()

	cfg := config.Config{
		Logger:       log,
		Width:        *width,
		Height:       *height,
		DepthQuality: *quality,
		UseHalfPixel: *halfPixel,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(pkg+"invalid configuration", "error", err)
	}

	f := filter.NewDepth(&nopWriteCloser{out}, cfg)
	defer f.Close()

	jpeg.Log = log
	// The lexer reports the end of the input as io.ErrUnexpectedEOF, also
	// when the file ends exactly on a frame boundary; io.EOF is accepted
	// as well.
	err = jpeg.Lex(f, in, 0)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		log.Fatal(pkg+"lexing failed", "error", err)
	}

	fmt.Println("wrote depth maps for", *inPath, "to", *outPath)
}

// nopWriteCloser adapts a plain writer into the io.WriteCloser the filter
// package expects, without closing the underlying file on filter.Close
// (the caller owns that lifecycle via its own defer).
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
