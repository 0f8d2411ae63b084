package datacounters

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCloserCounter(t *testing.T) {
	counter := NewReadCloserCounter(ioutil.NopCloser(strings.NewReader(`{"total_requests":1}`)), nil)

	b, err := ioutil.ReadAll(counter)
	assert.Nil(t, err)
	assert.Equal(t, uint64(len(b)), counter.Count())
	assert.Equal(t, uint64(20), counter.Count())
	assert.Nil(t, counter.Close())
}

func TestReadCloserCounterReportsOnce(t *testing.T) {
	var reported []uint64
	counter := NewReadCloserCounter(ioutil.NopCloser(strings.NewReader("0123456789")), func(read uint64) {
		reported = append(reported, read)
	})

	buf := make([]byte, 4)
	_, err := counter.Read(buf)
	assert.Nil(t, err)

	assert.Nil(t, counter.Close())
	assert.Nil(t, counter.Close())
	assert.Equal(t, []uint64{4}, reported)
}
