package xsink_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xsink/pkg/sink/xsink"
	"github.com/omeyang/xsink/pkg/sink/xsink/xsinkmock"
)

func TestNewWriter_NilSink(t *testing.T) {
	w, err := xsink.NewWriter(nil)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, xsink.ErrNilSink)
}

func TestWriter_OpensLazily(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)

	gomock.InOrder(
		s.EXPECT().IsOpen().Return(false),
		s.EXPECT().Open().Return(nil),
		s.EXPECT().Write([]byte("hello")).Return(5, nil),
	)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestWriter_OpenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)
	openErr := errors.New("boom")

	s.EXPECT().IsOpen().Return(false)
	s.EXPECT().Open().Return(openErr)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)

	n, err := w.Write([]byte("x"))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, openErr)
}

// TestWriter_LoopsOverPartialWrites 部分写入时继续写剩余部分
func TestWriter_LoopsOverPartialWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)

	s.EXPECT().IsOpen().Return(true)
	gomock.InOrder(
		s.EXPECT().Write([]byte("abcdef")).Return(2, nil),
		s.EXPECT().Write([]byte("cdef")).Return(3, nil),
		s.EXPECT().Write([]byte("f")).Return(1, nil),
	)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)

	n, err := w.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestWriter_ZeroProgressIsShortWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)

	s.EXPECT().IsOpen().Return(true)
	s.EXPECT().Write(gomock.Any()).Return(0, nil)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)

	_, err = w.Write([]byte("abc"))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestWriter_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)
	flushErr := errors.New("flush failed")

	s.EXPECT().IsOpen().Return(true)
	s.EXPECT().Flush().Return(flushErr)
	s.EXPECT().Close().Return(nil)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)

	// 刷新失败仍然关闭底层 Sink
	err = w.Close()
	assert.ErrorIs(t, err, flushErr)

	assert.ErrorIs(t, w.Close(), xsink.ErrClosed)
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, xsink.ErrClosed)
	assert.ErrorIs(t, w.Flush(), xsink.ErrClosed)
}

func TestWriter_CloseNotOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := xsinkmock.NewMockSink(ctrl)

	s.EXPECT().IsOpen().Return(false)

	w, err := xsink.NewWriter(s)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
