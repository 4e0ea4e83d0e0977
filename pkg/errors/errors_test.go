package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", InvalidInput("bad url"), http.StatusBadRequest},
		{"not found", NotFound("no media"), http.StatusNotFound},
		{"upstream", Upstream(stderrors.New("dial tcp: timeout"), "fetch failed"), http.StatusInternalServerError},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Upstream(cause, "fetch post page")

	assert.True(t, IsUpstream(err))
	assert.True(t, Is(err, cause))
	assert.Equal(t, CodeUpstream, GetCode(err))
	assert.Equal(t, "fetch post page", GetMessage(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "message"))
	assert.Nil(t, WrapWithCode(nil, CodeNotFound, "message"))
	assert.Equal(t, "", GetMessage(nil))
}
