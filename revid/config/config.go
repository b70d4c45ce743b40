/*
NAME
  Config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package config contains the configuration settings for revid.
package config

import (
	"github.com/ausocean/utils/logging"
)

// Enums to define inputs and outputs.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// Input.
	InputFile
	InputManual

	// Output.
	OutputFile
	OutputFiles
)

// The different media filters.
const (
	FilterNoOp = iota
	FilterMOG
	FilterVariableFPS
	FilterKNN
	FilterDiff
	FilterBasic
	FilterDepth
)

// Config provides parameters relevant to a revid instance. A new config must
// be passed to the constructor. Default values for these fields are defined
// as consts in variables.go.
type Config struct {
	BurstPeriod uint // BurstPeriod defines the revid burst period in seconds.

	FileFPS uint   // Defines the rate at which frames from a file source are processed.
	Filters []uint // Defines the methods of filtering to be used in between lexing and encoding.

	Height uint // Height defines the height of input video/image frames.

	// Input defines the input data source.
	//
	// Valid values are defined by enums:
	// InputFile:
	//		Read a JPEG/MJPEG stream from a file.
	// 		Location must be specified in InputPath field.
	// InputManual:
	//		Frames are written directly to revid via its io.Writer interface.
	Input uint8

	// InputCodec defines the input codec we wish to use, and therefore defines the
	// lexer for use in the pipeline. Valid values are "mjpeg" and "jpeg".
	InputCodec string

	// InputPath defines the input file location for File Input. This must be
	// defined if File input is to be used.
	InputPath string

	// Logger holds an implementation of the Logger interface as defined in revid.go.
	// This must be set for revid to work correctly.
	Logger logging.Logger

	// LogLevel is the revid logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	Loop        bool // If true will restart reading of input after an io.EOF.
	MaxFileSize uint // Maximum size in bytes that a file will be written when File output is to be used. A value of 0 means unlimited.
	MinFPS      uint // The reduced framerate of the video when there is no motion.

	MotionDownscaling uint    // Downscaling factor of frames used for motion detection.
	MotionHistory     uint    // Length of filter's history (KNN & MOG only).
	MotionInterval    uint    // Sets the number of frames that are held before the filter is used (on the nth frame).
	MotionKernel      uint    // Size of kernel used for filling holes and removing noise (KNN only).
	MotionMinArea     float64 // Used to ignore small areas of motion detection (KNN & MOG only).
	MotionPadding     uint    // Number of frames to keep before and after motion detected.
	MotionPixels      uint    // Number of pixels with motion that is needed for a whole frame to be considered as moving (Basic only).
	MotionThreshold   float64 // Intensity value that is considered motion.

	// DepthQuality selects the motion estimator's search effort for the
	// depth filter (FilterDepth), from 1 (fastest) to 100 (most thorough).
	// Validate replaces 0 or a value above 100 with the default of 50.
	DepthQuality uint

	// UseHalfPixel enables sub-pixel refinement of motion vectors in the
	// depth filter (FilterDepth), at extra cost per frame.
	UseHalfPixel bool

	// OutputPath defines the output destination for File/Files output. This
	// must be defined if either is to be used.
	OutputPath string

	// Outputs define the outputs we wish to output data too.
	//
	// Valid outputs are defined by enums:
	// OutputFile:
	// 		A single file is written to, at the location defined by OutputPath.
	// OutputFiles:
	// 		A new file is written for every write, at the location defined by
	//		OutputPath.
	Outputs []uint8

	Suppress bool // Holds logger suppression state.

	Width uint // Width defines the width of input video/image frames.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
