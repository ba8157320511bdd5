// Package server provides the HTTP REST API for the chart agent.
package server

import (
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnsupportedFile indicates an upload with an unsupported extension
type ErrUnsupportedFile struct {
	Filename string
}

func (e *ErrUnsupportedFile) Error() string {
	return fmt.Sprintf("only Excel files (.xlsx, .xls) are supported: %s", e.Filename)
}

// ErrFileTooLarge indicates an upload exceeding the size limit
type ErrFileTooLarge struct {
	Size  int64
	Limit int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("file too large: %d bytes (max %d)", e.Size, e.Limit)
}

// ErrChartNotFound indicates a chart file was not found on disk
type ErrChartNotFound struct {
	Filename string
}

func (e *ErrChartNotFound) Error() string {
	return fmt.Sprintf("chart not found: %s", e.Filename)
}

// ErrResolverUnavailable indicates every resolution strategy failed
type ErrResolverUnavailable struct {
	Err error
}

func (e *ErrResolverUnavailable) Error() string {
	return fmt.Sprintf("no resolution strategy available: %v", e.Err)
}

func (e *ErrResolverUnavailable) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation, *ErrUnsupportedFile:
		return http.StatusBadRequest
	case *ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case *ErrChartNotFound:
		return http.StatusNotFound
	case *ErrResolverUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
