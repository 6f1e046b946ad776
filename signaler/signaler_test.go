package signaler

import (
	"os"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signals cannot be sent to the current process on windows")
	}
	sigC := WaitForInterrupt()
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGTERM))

	select {
	case got := <-sigC:
		assert.Equal(t, syscall.SIGTERM, got)
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not received")
	}
}
