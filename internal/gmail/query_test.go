package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	senders := []string{"alertas@bcp.com.pe", "avisos@bbva.pe"}

	query := BuildQuery(senders, 7)
	assert.Equal(t, "(from:alertas@bcp.com.pe OR from:avisos@bbva.pe) newer_than:7d", query)
}

func TestBuildQuerySkipsBlankSenders(t *testing.T) {
	senders := []string{"alertas@bcp.com.pe", "  ", ""}

	query := BuildQuery(senders, 30)
	assert.Equal(t, "(from:alertas@bcp.com.pe) newer_than:30d", query)
}
