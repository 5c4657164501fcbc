package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a file failed in
type Stage string

const (
	StageFilename  Stage = "filename"
	StageOpen      Stage = "open"
	StageCaption   Stage = "caption"
	StageGround    Stage = "ground"
	StageNormalize Stage = "normalize"
	StageTranslate Stage = "translate"
	StageRelocate  Stage = "relocate"
)

var (
	ErrMetadataFormat  = errors.New("metadata format error")
	ErrImageOpen       = errors.New("image open error")
	ErrExternalService = errors.New("external service error")
	ErrRelocation      = errors.New("relocation error")
)

// FileError is a single-file failure. Kind is one of the Err* sentinels.
type FileError struct {
	File  string
	Stage Stage
	Kind  error
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.File, e.Stage, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func fail(file string, stage Stage, kind, err error) *FileError {
	return &FileError{File: file, Stage: stage, Kind: kind, Err: err}
}
