//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Keeps the halfpel package buildable when Circle-CI builds revid without
  a copy of Open CV installed. Half-pixel plane synthesis needs gocv, so
  builds without the withcv tag get no Planes; the depth filter in those
  builds is a NoOp and never asks for them.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package halfpel
