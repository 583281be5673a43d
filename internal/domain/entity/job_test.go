package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusIsTerminal(t *testing.T) {
	cases := map[JobStatus]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusCompleted:  true,
		StatusFailed:     true,
		StatusCancelled:  true,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.IsTerminal(), status)
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, JobStatus("queued").Valid())
}
