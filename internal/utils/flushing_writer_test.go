package utils_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/treestatus/internal/utils"
)

const flushedReportLineConstant = "• /workspace/project [main] up to date with origin/main\n"

type erroringFlushWriter struct {
	builder    strings.Builder
	flushCount int
	flushError error
}

func (flushWriter *erroringFlushWriter) Write(data []byte) (int, error) {
	return flushWriter.builder.Write(data)
}

func (flushWriter *erroringFlushWriter) Flush() error {
	flushWriter.flushCount++
	return flushWriter.flushError
}

type plainFlushWriter struct {
	builder    strings.Builder
	flushCount int
}

func (flushWriter *plainFlushWriter) Write(data []byte) (int, error) {
	return flushWriter.builder.Write(data)
}

func (flushWriter *plainFlushWriter) Flush() {
	flushWriter.flushCount++
}

func TestFlushingWriterFlushesAfterEachWrite(testInstance *testing.T) {
	underlyingWriter := &erroringFlushWriter{}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	bytesWritten, writeError := flushingWriter.Write([]byte(flushedReportLineConstant))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(flushedReportLineConstant), bytesWritten)
	require.Equal(testInstance, flushedReportLineConstant, underlyingWriter.builder.String())
	require.Equal(testInstance, 1, underlyingWriter.flushCount)
}

func TestFlushingWriterRecognizesPlainFlushDestinations(testInstance *testing.T) {
	underlyingWriter := &plainFlushWriter{}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	_, writeError := flushingWriter.Write([]byte(flushedReportLineConstant))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 1, underlyingWriter.flushCount)
}

func TestFlushingWriterSurfacesFlushFailures(testInstance *testing.T) {
	flushFailure := errors.New("destination unavailable")
	underlyingWriter := &erroringFlushWriter{flushError: flushFailure}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	_, writeError := flushingWriter.Write([]byte(flushedReportLineConstant))
	require.ErrorIs(testInstance, writeError, flushFailure)
}

func TestFlushingWriterDoesNotRewrapItself(testInstance *testing.T) {
	underlyingWriter := &strings.Builder{}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)
	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
