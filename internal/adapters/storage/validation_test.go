package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, validateContentType("application/pdf"))
	assert.NoError(t, validateContentType("text/csv; charset=utf-8"))
	assert.Error(t, validateContentType("image/png"))
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, validateFileSize(10, 100))
	assert.NoError(t, validateFileSize(10, 0))
	assert.Error(t, validateFileSize(0, 100))
	assert.Error(t, validateFileSize(101, 100))
}
