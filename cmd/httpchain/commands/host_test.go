package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIHost_FixtureValue(t *testing.T) {
	h := newCLIHost(varFlags{"base_url": "https://example.com"}, make(chan struct{}))

	v, err := h.FixtureValue("base_url")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com", v)

	_, err = h.FixtureValue("missing")
	assert.Error(t, err)
}

func TestCLIHost_SummaryReflectsFailures(t *testing.T) {
	h := newCLIHost(varFlags{}, make(chan struct{}))
	h.ReportPass("create", "")
	h.ReportFail("cleanup", "", errors.New("boom"))

	ok := h.Summary()
	assert.False(t, ok)
	assert.Equal(t, 1, h.perStage["create"].passed)
	assert.Equal(t, 1, h.perStage["cleanup"].failed)
}

func TestCLIHost_SummaryAllPassed(t *testing.T) {
	h := newCLIHost(varFlags{}, make(chan struct{}))
	h.ReportPass("create", "0")
	h.ReportPass("create", "1")

	assert.True(t, h.Summary())
}

func TestCLIHost_Cancelled(t *testing.T) {
	cancel := make(chan struct{})
	h := newCLIHost(varFlags{}, cancel)
	assert.False(t, h.Cancelled())

	close(cancel)
	assert.True(t, h.Cancelled())
}
