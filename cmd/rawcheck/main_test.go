package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jzx17/rawcheck/pkg/types"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "config error",
			err:  types.NewConfigError("path %q does not exist or is not a directory", "/nope"),
			want: "Error: configuration error: path \"/nope\" does not exist or is not a directory\n\n",
		},
		{
			name: "validation failures already listed",
			err:  errFailuresFound,
			want: "",
		},
		{
			name: "cancellation",
			err:  types.ErrCanceled,
			want: "",
		},
		{
			name: "unexpected error",
			err:  errors.New("logger init failed"),
			want: "Error: logger init failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
