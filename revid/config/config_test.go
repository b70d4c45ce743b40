/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package config

import (
	"testing"

	"github.com/ausocean/depth/codec/codecutil"
	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:       dl,
		Input:        defaultInput,
		Outputs:      []uint8{defaultOutput},
		InputCodec:   defaultInputCodec,
		BurstPeriod:  defaultBurstPeriod,
		FileFPS:      defaultFileFPS,
		MinFPS:       defaultMinFPS,
		DepthQuality: defaultDepthQuality,
	}

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"BurstPeriod":       "10",
		"FileFPS":           "30",
		"Filters":           "Depth",
		"Height":            "300",
		"Input":             "manual",
		"InputCodec":        "mjpeg",
		"InputPath":         "/inputpath",
		"logging":           "Error",
		"Loop":              "true",
		"MaxFileSize":       "5000",
		"MinFPS":            "30",
		"MotionDownscaling": "3",
		"MotionHistory":     "4",
		"MotionInterval":    "6",
		"MotionKernel":      "2",
		"MotionMinArea":     "9",
		"MotionPadding":     "8",
		"MotionPixels":      "100",
		"MotionThreshold":   "34",
		"DepthQuality":      "75",
		"UseHalfPixel":      "true",
		"OutputPath":        "/outputpath",
		"Outputs":           "File,Files",
		"Width":             "300",
	}

	dl := &dumbLogger{}

	want := Config{
		Logger:            dl,
		BurstPeriod:       10,
		FileFPS:           30,
		Filters:           []uint{FilterDepth},
		Height:            300,
		Input:             InputManual,
		InputCodec:        codecutil.MJPEG,
		InputPath:         "/inputpath",
		LogLevel:          logging.Error,
		Loop:              true,
		MaxFileSize:       5000,
		MinFPS:            30,
		MotionDownscaling: 3,
		MotionHistory:     4,
		MotionInterval:    6,
		MotionKernel:      2,
		MotionMinArea:     9,
		MotionPadding:     8,
		MotionPixels:      100,
		MotionThreshold:   34,
		DepthQuality:      75,
		UseHalfPixel:      true,
		OutputPath:        "/outputpath",
		Outputs:           []uint8{OutputFile, OutputFiles},
		Width:             300,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}
