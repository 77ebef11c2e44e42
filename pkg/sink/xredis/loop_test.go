package xredis_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xsink/pkg/observability/xreport"
	"github.com/omeyang/xsink/pkg/sink/xloop"
	"github.com/omeyang/xsink/pkg/sink/xredis"
)

func TestLoopOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	target, err := xredis.New(client, "stream")
	require.NoError(t, err)
	loop, err := xloop.New(target, 8, xloop.WithReporter(xreport.New(xreport.WithOutput(io.Discard))))
	require.NoError(t, err)

	require.NoError(t, loop.Open())
	for _, chunk := range []string{"aaaa", "bbbb", "cccc", "dddd", "ee"} {
		_, err := loop.Write([]byte(chunk))
		require.NoError(t, err)
	}
	loop.Release()

	segs, err := target.Segments(context.Background())
	require.NoError(t, err)
	require.Len(t, segs, 3)

	var all strings.Builder
	for _, key := range segs {
		v, err := mr.Get(key)
		require.NoError(t, err)
		all.WriteString(v)
	}
	assert.Equal(t, "aaaabbbbccccddddee", all.String())
}
