package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("template", "outcome/wellbeing")))
	assert.True(t, Is(NewValidationError("kind", "model", "unknown kind"), ErrInvalidInput))
	assert.True(t, IsManifestCorrupt(NewManifestError("manifest.yaml", "unparseable", nil)))

	assert.False(t, IsNotFound(NewManifestError("manifest.yaml", "unparseable", nil)))
	assert.False(t, IsNotFound(nil))
}

func TestWrappedCausesAreReachable(t *testing.T) {
	ioErr := NewIOError("read", "/tmp/manifest.yaml", io.ErrUnexpectedEOF)
	assert.True(t, Is(ioErr, io.ErrUnexpectedEOF))
	assert.Contains(t, ioErr.Error(), "/tmp/manifest.yaml")

	syncErr := NewSyncError("outcome/wellbeing", "update", ioErr)
	assert.True(t, Is(syncErr, io.ErrUnexpectedEOF))
	assert.Contains(t, syncErr.Error(), "outcome/wellbeing")
	assert.Contains(t, syncErr.Error(), "update")
}

func TestWrapHelpersPassNilThrough(t *testing.T) {
	assert.NoError(t, WrapIO("read", "/tmp/x", nil))
	assert.NoError(t, WrapParse("toml", "config.toml", nil))
}

func TestManifestErrorMessage(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3")
	err := NewManifestError("/home/u/.config/margo/manifest.yaml", "unparseable manifest", cause)
	assert.Contains(t, err.Error(), "/home/u/.config/margo/manifest.yaml")
	assert.Contains(t, err.Error(), "unparseable manifest")
	assert.Equal(t, cause, Unwrap(err))
}
