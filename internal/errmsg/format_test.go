package errmsg

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		op   Op
		err  error
		want string
	}{
		{OpCatalogImport, nil, ""},
		{OpCatalogImport, errors.New("permission denied"), "Failed to import catalog: permission denied"},
		{OpDownloadQueue, errors.New("track has no media uri"), "Failed to queue download: track has no media uri"},
		{OpFavoriteToggle, errors.New("database is locked"), "Failed to update favorites: database is locked"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.op, tt.err), "op %q", tt.op)
	}
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(OpCatalogLoad, nil))

	err := Wrap(OpCatalogLoad, fs.ErrNotExist)
	assert.EqualError(t, err, "load catalog: file does not exist")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var e *Error
	if assert.ErrorAs(t, err, &e) {
		assert.Equal(t, OpCatalogLoad, e.Op)
	}
}
