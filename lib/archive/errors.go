// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
)

// Stage names one stage of the archive pipeline.
type Stage string

const (
	StagePack     Stage = "pack"
	StageCompress Stage = "compress"
	StageEncrypt  Stage = "encrypt"
	StageWrite    Stage = "write"
)

// PipelineError reports the failure of one pipeline stage. It is the
// single failure outcome of the whole operation: once a stage fails no
// further data moves through the pipeline.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("archive %s stage: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// stageError attributes err to stage unless an earlier (downstream)
// stage has already claimed it. A write failure at the destination
// surfaces through every upstream Write call; it must keep reporting
// the write stage.
func stageError(stage Stage, err error) error {
	var existing *PipelineError
	if errors.As(err, &existing) {
		return err
	}
	return &PipelineError{Stage: stage, Err: err}
}

// stageWriter attributes errors from writer to stage and counts the
// bytes that passed through.
type stageWriter struct {
	stage   Stage
	writer  io.Writer
	written int64
}

func (w *stageWriter) Write(data []byte) (int, error) {
	count, err := w.writer.Write(data)
	w.written += int64(count)
	if err != nil {
		return count, stageError(w.stage, err)
	}
	return count, nil
}
