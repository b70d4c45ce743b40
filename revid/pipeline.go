/*
DESCRIPTION
  pipeline.go provides functionality for set up of the revid processing pipeline.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>
  Dan Kortschak <dan@ausocean.org>
  Trek Hopton <trek@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package revid

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ausocean/depth/codec/codecutil"
	"github.com/ausocean/depth/codec/jpeg"
	"github.com/ausocean/depth/device"
	"github.com/ausocean/depth/device/file"
	"github.com/ausocean/depth/filter"
	"github.com/ausocean/depth/revid/config"
	"github.com/ausocean/utils/ioext"
)

// TODO(Saxon): put more thought into error severity and how to handle these.
func (r *Revid) handleErrors() {
	for {
		err := <-r.err
		if err != nil {
			r.cfg.Logger.Error("async error", "error", err.Error())
		}
	}
}

// reset swaps the current config of a Revid with the passed
// configuration; checking validity and returning errors if not valid. It then
// sets up the data pipeline accordingly to this configuration.
func (r *Revid) reset(c config.Config) error {
	r.cfg.Logger.Debug("setting config")
	err := r.setConfig(c)
	if err != nil {
		return fmt.Errorf("could not set config: %w", err)
	}
	r.cfg.Logger.Info("config set")

	r.cfg.Logger.Debug("setting up revid pipeline")
	err = r.setupPipeline(ioext.MultiWriteCloser)
	r.cfg.Logger.Info("finished setting pipeline")

	if err != nil {
		return fmt.Errorf("could not set up pipeline: %w", err)
	}

	return nil
}

// setConfig takes a config, checks it's validity and then replaces the current
// revid config.
func (r *Revid) setConfig(config config.Config) error {
	r.cfg.Logger = config.Logger
	r.cfg.Logger.Debug("validating config")
	err := config.Validate()
	if err != nil {
		return errors.New("Config struct is bad: " + err.Error())
	}
	r.cfg.Logger.Info("config validated")
	r.cfg = config
	r.cfg.Logger.SetLevel(r.cfg.LogLevel)
	return nil
}

// setupPipeline constructs the revid dataPipeline. Inputs, filters and
// senders are created and linked based on the current revid config.
//
// multiWriter is used to create an ioext.multiWriteCloser so that the
// lexed stream can be written to multiple senders.
func (r *Revid) setupPipeline(multiWriter func(...io.WriteCloser) io.WriteCloser) error {
	// senders will hold the destinations that the lexed and filtered stream
	// is ultimately written to.
	var senders []io.WriteCloser

	for _, out := range r.cfg.Outputs {
		switch out {
		case config.OutputFile:
			r.cfg.Logger.Debug("using File output")
			w, err := newFileSender(r.cfg.Logger, r.cfg.OutputPath, false, r.cfg.MaxFileSize)
			if err != nil {
				return err
			}
			senders = append(senders, w)
		case config.OutputFiles:
			r.cfg.Logger.Debug("using Files output")
			w, err := newFileSender(r.cfg.Logger, r.cfg.OutputPath, true, r.cfg.MaxFileSize)
			if err != nil {
				return err
			}
			senders = append(senders, w)
		default:
			return fmt.Errorf("unrecognised output type: %v", out)
		}
	}

	r.encoders = multiWriter(senders...)

	l := len(r.cfg.Filters)
	r.filters = []filter.Filter{filter.NewNoOp(r.encoders)}
	if l != 0 {
		r.cfg.Logger.Debug("setting up filters", "filters", r.cfg.Filters)
		r.filters = make([]filter.Filter, l)
		dst := r.encoders

		for i := l - 1; i >= 0; i-- {
			switch r.cfg.Filters[i] {
			case config.FilterNoOp:
				r.cfg.Logger.Debug("using NoOp filter")
				r.filters[i] = filter.NewNoOp(dst)
			case config.FilterMOG:
				r.cfg.Logger.Debug("using MOG filter")
				r.filters[i] = filter.NewMOG(dst, r.cfg)
			case config.FilterVariableFPS:
				r.cfg.Logger.Debug("using Variable FPS MOG filter")
				r.filters[i] = filter.NewVariableFPS(dst, r.cfg.MinFPS, filter.NewMOG(dst, r.cfg))
			case config.FilterKNN:
				r.cfg.Logger.Debug("using KNN filter")
				r.filters[i] = filter.NewKNN(dst, r.cfg)
			case config.FilterDiff:
				r.cfg.Logger.Debug("using gocv difference filter")
				r.filters[i] = filter.NewDiff(dst, r.cfg)
			case config.FilterBasic:
				r.cfg.Logger.Debug("using go difference filter")
				r.filters[i] = filter.NewBasic(dst, r.cfg)
			case config.FilterDepth:
				r.cfg.Logger.Debug("using depth filter")
				r.filters[i] = filter.NewDepth(dst, r.cfg)
			default:
				panic("unknown filter")
			}
			dst = r.filters[i]
		}
		r.cfg.Logger.Info("filters set up")
	}

	var err error
	switch r.cfg.Input {
	case config.InputFile:
		r.cfg.Logger.Debug("using file input")
		r.input = file.New(r.cfg.Logger)
		err = r.setLexer(r.cfg.InputCodec)

	case config.InputManual:
		r.cfg.Logger.Debug("using manual input")
		r.input = device.NewManualInput()
		err = r.setLexer(r.cfg.InputCodec)

	default:
		return fmt.Errorf("unrecognised input type: %v", r.cfg.Input)
	}
	if err != nil {
		return fmt.Errorf("could not set lexer: %w", err)
	}

	// Configure the input device. We know that defaults are set, so no need to
	// return error, but we should log.
	r.cfg.Logger.Debug("configuring input device")
	err = r.input.Set(r.cfg)
	if err != nil {
		r.cfg.Logger.Warning("errors from configuring input device", "errors", err)
	}
	r.cfg.Logger.Info("input device configured")

	return nil
}

// setLexer sets the revid input lexer based on the configured input codec.
func (r *Revid) setLexer(c string) error {
	switch c {
	case codecutil.MJPEG, codecutil.JPEG:
		r.cfg.Logger.Debug("using MJPEG/JPEG codec")
		r.lexTo = jpeg.Lex
		jpeg.Log = r.cfg.Logger
	default:
		return fmt.Errorf("unrecognised codec: %v", c)
	}
	return nil
}

// processFrom is run as a routine to read from a input data source, lex and
// then send individual access units to revid's encoders.
func (r *Revid) processFrom(delay time.Duration) {
	defer r.wg.Done()

	if r.input != nil {
		err := r.input.Start()
		if err != nil {
			r.err <- fmt.Errorf("could not start input device: %w", err)
			return
		}
	}

	// Lex data from input device, in, until finished or an error is encountered.
	// For a continuous source e.g. a camera or microphone, we should remain
	// in this call indefinitely unless in.Stop() is called and an io.EOF is forced.
	r.cfg.Logger.Debug("lexing")
	var w io.Writer
	w = r.filters[0]
	if r.probe != nil {
		w = ioext.MultiWriteCloser(r.filters[0], r.probe)
	}

	err := r.lexTo(w, r.input, delay)
	switch err {
	case nil, io.EOF:
		r.cfg.Logger.Info("end of file")
	case io.ErrUnexpectedEOF:
		r.cfg.Logger.Info("unexpected EOF from input")
	case io.ErrClosedPipe:
		r.cfg.Logger.Info("input stopped while lexing")
	default:
		r.err <- err
	}
	r.cfg.Logger.Info("finished reading input")

	r.cfg.Logger.Debug("stopping input")
	err = r.input.Stop()
	if err != nil {
		r.err <- fmt.Errorf("could not stop input source: %w", err)
	} else {
		r.cfg.Logger.Info("input stopped")
	}
}
