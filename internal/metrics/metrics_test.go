package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestCounter("metrics test", 204))
	ObserveRequest("metrics test", 204, 5*time.Millisecond)
	ObserveRequest("metrics test", 204, 7*time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(RequestCounter("metrics test", 204)))
}

func TestSessionInvalidated(t *testing.T) {
	before := testutil.ToFloat64(InvalidationCounter())
	SessionInvalidated()
	assert.Equal(t, before+1, testutil.ToFloat64(InvalidationCounter()))
}
