package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"titanicdash/domain/core"
)

func TestWrapKeepsDomainCode(t *testing.T) {
	err := Wrap(core.NewInvalidRangeError("Age", 9, 1), "age filter")
	assert.Equal(t, CodeInvalidRange, GetCode(err))
	assert.True(t, core.IsInvalidRangeError(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	err = Wrapf(core.NewLoadError("x.csv", stderrors.New("boom")), "loading %s", "x.csv")
	assert.Equal(t, CodeLoadError, GetCode(err))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestWrapAppError(t *testing.T) {
	inner := InvalidInput("rows must be an integer")
	err := Wrap(inner, "head")
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "head: rows must be an integer", err.Error())
}

func TestClassifyDefaults(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, CodeInternalError, Classify(stderrors.New("other")))
	assert.Equal(t, CodeUnknownColumn, Classify(core.NewUnknownColumnError("Cabin")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(core.NewUnknownColumnError("Cabin")))
	assert.Nil(t, Wrap(nil, "noop"))
}
