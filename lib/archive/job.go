// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"os"
	"path/filepath"
)

// WriteFile builds an archive of sourceDir at destinationPath. The
// stream is written to a temporary file in the destination's directory
// and renamed into place only after every stage has completed, so a
// failed build never leaves a truncated archive at destinationPath.
// The temporary file is closed and removed on every failure path.
func WriteFile(ctx context.Context, sourceDir, destinationPath string, options ...Option) (Stats, error) {
	resolved := newOptions(options)

	temporary, err := os.CreateTemp(filepath.Dir(destinationPath), "."+filepath.Base(destinationPath)+".*.partial")
	if err != nil {
		return Stats{}, err
	}
	temporaryPath := temporary.Name()

	stats, err := Build(ctx, sourceDir, temporary, options...)
	if err == nil {
		if chmodErr := temporary.Chmod(0o644); chmodErr != nil {
			err = stageError(StageWrite, chmodErr)
		}
	}
	closeErr := temporary.Close()
	if err == nil && closeErr != nil {
		err = stageError(StageWrite, closeErr)
	}
	if err == nil {
		if renameErr := os.Rename(temporaryPath, destinationPath); renameErr != nil {
			err = stageError(StageWrite, renameErr)
		}
	}
	if err != nil {
		os.Remove(temporaryPath)
		resolved.Logger.Error("archive build failed",
			"source", sourceDir,
			"destination", destinationPath,
			"error", err,
		)
		return Stats{}, err
	}

	resolved.Logger.Info("archive written",
		"source", sourceDir,
		"destination", destinationPath,
		"codec", resolved.Codec.String(),
		"files", stats.Files,
		"bytes", stats.Bytes,
		"written", stats.Written,
	)
	return stats, nil
}

// Job is an archive build running in the background. It completes
// exactly once, with either the destination path or an error.
type Job struct {
	destination string
	done        chan struct{}
	stats       Stats
	err         error
}

// Start runs [WriteFile] on a new goroutine. Cancelling ctx aborts the
// walk at the next entry; there is no other timeout.
func Start(ctx context.Context, sourceDir, destinationPath string, options ...Option) *Job {
	job := &Job{
		destination: destinationPath,
		done:        make(chan struct{}),
	}
	go func() {
		defer close(job.done)
		job.stats, job.err = WriteFile(ctx, sourceDir, destinationPath, options...)
	}()
	return job
}

// GenerateTarGz starts a gzip archive build of srcDir at destPath with
// no cancellation. The returned job resolves to destPath.
func GenerateTarGz(srcDir, destPath string) *Job {
	return Start(context.Background(), srcDir, destPath)
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns the destination path
// on success.
func (j *Job) Wait() (string, error) {
	<-j.done
	if j.err != nil {
		return "", j.err
	}
	return j.destination, nil
}

// Stats blocks until the job finishes and returns its statistics. They
// are zero if the job failed.
func (j *Job) Stats() Stats {
	<-j.done
	return j.stats
}
