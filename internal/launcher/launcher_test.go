package launcher

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/employee-discovery/internal/clock/system"
	"github.com/JakeFAU/employee-discovery/internal/id/uuid"
	"github.com/JakeFAU/employee-discovery/internal/progress"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recordingEmitter) Emit(evt progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingEmitter) Stages() []progress.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]progress.Stage, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Stage)
	}
	return out
}

func newTestLauncher(t *testing.T, dir string, out *bytes.Buffer) (*Launcher, *recordingEmitter) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("launch tests use a POSIX shell as the interpreter")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	emitter := &recordingEmitter{}
	l := New(Config{
		Interpreter: "sh",
		Workdir:     dir,
		Stdout:      out,
		Stderr:      out,
	}, uuid.NewUUIDGenerator(), system.New(), emitter, zap.NewNop())
	return l, emitter
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLaunchReportsExit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var out bytes.Buffer
	l, emitter := newTestLauncher(t, dir, &out)
	script := writeScript(t, dir, "ok.sh", "pwd\necho hello\n")

	h, err := l.Launch(context.Background(), Request{Token: "1", Script: script})
	require.NoError(t, err)
	require.Positive(t, h.PID)
	require.Equal(t, 7, int(h.ID.Version()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, res.Success())
	require.GreaterOrEqual(t, res.Duration, time.Duration(0))

	waitIdle(t, l)
	require.Contains(t, out.String(), "hello")
	require.Contains(t, out.String(), filepath.Base(dir))
	require.Equal(t, []progress.Stage{progress.StageLaunchStart, progress.StageLaunchExit}, emitter.Stages())
}

// waitIdle waits until every child has exited and its exit event is out.
func waitIdle(t *testing.T, l *Launcher) {
	t.Helper()
	require.Eventually(t, func() bool { return l.Running() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestLaunchNonZeroExit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, emitter := newTestLauncher(t, dir, &bytes.Buffer{})
	script := writeScript(t, dir, "fail.sh", "exit 4\n")

	h, err := l.Launch(context.Background(), Request{Token: "2", Script: script})
	require.NoError(t, err)

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	res, ok := h.Result()
	require.True(t, ok)
	require.Equal(t, 4, res.ExitCode)
	require.NoError(t, res.Err)
	require.False(t, res.Success())

	waitIdle(t, l)
	stages := emitter.Stages()
	require.Equal(t, progress.StageLaunchExit, stages[len(stages)-1])
}

func TestLaunchDoesNotBlockOnChild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, _ := newTestLauncher(t, dir, &bytes.Buffer{})
	script := writeScript(t, dir, "slow.sh", "sleep 1\n")

	start := time.Now()
	h, err := l.Launch(context.Background(), Request{Token: "3", Script: script})
	require.NoError(t, err)
	require.Less(t, time.Since(start), 500*time.Millisecond)

	_, done := h.Result()
	require.False(t, done)
	require.Equal(t, 1, l.Running())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	waitIdle(t, l)
}

func TestLaunchSpawnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	emitter := &recordingEmitter{}
	l := New(Config{Interpreter: filepath.Join(dir, "no-such-interpreter"), Workdir: dir},
		uuid.NewUUIDGenerator(), system.New(), emitter, nil)

	h, err := l.Launch(context.Background(), Request{Token: "4", Script: filepath.Join(dir, "x.py")})
	require.Error(t, err)
	require.Nil(t, h)
	require.Equal(t, []progress.Stage{progress.StageLaunchError}, emitter.Stages())
	require.Equal(t, 0, l.Running())
}

func TestLaunchRequiresScript(t *testing.T) {
	t.Parallel()

	l := New(Config{Interpreter: "sh"}, uuid.NewUUIDGenerator(), system.New(), nil, nil)
	_, err := l.Launch(context.Background(), Request{Token: "1"})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Launch(ctx, Request{Token: "1", Script: "x.py"})
	require.ErrorIs(t, err, context.Canceled)
}
