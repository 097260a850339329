package commands_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmgmt/internal/commands"
	"taskmgmt/internal/config"
	"taskmgmt/internal/exitcode"
	"taskmgmt/internal/output"
	"taskmgmt/internal/service"
	"taskmgmt/internal/store"
	"taskmgmt/internal/testutil"
)

const owner = "user@example.com"

// harness bundles a command run environment over a fake service.
type harness struct {
	svc    *testutil.FakeService
	cfg    *config.Config
	st     *store.Store
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T, quiet bool) *harness {
	t.Helper()

	h := &harness{
		svc: testutil.NewFakeService(),
		cfg: &config.Config{Dir: t.TempDir(), Quiet: quiet, Email: owner},
	}
	notify := &output.ConsoleNotifier{Out: &h.out, Err: &h.errOut, Quiet: quiet}
	h.st = store.New(owner, h.svc, notify, nil, store.Options{})
	t.Cleanup(h.st.Close)
	return h
}

func (h *harness) run(t *testing.T, cmd commands.Command, args []string) int {
	t.Helper()
	return cmd.Run(context.Background(), h.cfg, h.st, args, &h.out, &h.errOut)
}

// seed adds n tasks, oldest first in creation, and returns them in
// display order (newest first).
func (h *harness) seed(n int) []service.Task {
	base := time.Now().Add(-time.Hour)
	tasks := make([]service.Task, n)
	for i := 0; i < n; i++ {
		tasks[n-1-i] = h.svc.AddTask(owner, "task "+string(rune('A'+i)), base.Add(time.Duration(i)*time.Minute))
	}
	return tasks
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.VersionCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, h.errOut.String())
	assert.Equal(t, "taskmgmt "+commands.Version+"\n", h.out.String())
}

func TestHelpCommand(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.HelpCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, h.out.String(), "Usage:")
}

func TestListCommand(t *testing.T) {
	h := newHarness(t, false)
	h.seed(2)

	code := h.run(t, &commands.ListCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "   1  task B\n   2  task A\n", h.out.String())
	assert.Empty(t, h.errOut.String())
}

func TestListCommandEmpty(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.ListCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "no tasks found\n", h.out.String())
}

func TestListCommandEmptyQuiet(t *testing.T) {
	h := newHarness(t, true)

	code := h.run(t, &commands.ListCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, h.out.String())
}

func TestListCommandBackendError(t *testing.T) {
	h := newHarness(t, false)
	h.svc.ListTasksErr = &service.RemoteError{Status: 500}

	code := h.run(t, &commands.ListCmd{}, nil)

	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, h.errOut.String(), "error: "+store.MsgLoadFailed)
}

func TestListCommandRejectsArgs(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.ListCmd{}, []string{"extra"})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: list takes no arguments\n", h.errOut.String())
}

func TestAddCommand(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.AddCmd{}, []string{"buy", "milk"})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.CreateTaskCalls())
	assert.Equal(t, store.MsgCreated+"\n", h.out.String())
	assert.Equal(t, store.MsgCreatingTask+"\n", h.errOut.String())
}

func TestAddCommandQuiet(t *testing.T) {
	h := newHarness(t, true)

	code := h.run(t, &commands.AddCmd{}, []string{"buy milk"})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, h.out.String())
	assert.Empty(t, h.errOut.String())
}

func TestAddCommandRequiresDetails(t *testing.T) {
	h := newHarness(t, false)

	for _, args := range [][]string{nil, {"   "}} {
		h.out.Reset()
		h.errOut.Reset()
		code := h.run(t, &commands.AddCmd{}, args)

		assert.Equal(t, exitcode.UserError, code)
		assert.Equal(t, "error: details required\n", h.errOut.String())
	}
	assert.Equal(t, 0, h.svc.CreateTaskCalls())
}

func TestAddCommandBackendError(t *testing.T) {
	h := newHarness(t, false)
	h.svc.CreateTaskErr = &service.RemoteError{Status: 500}

	code := h.run(t, &commands.AddCmd{}, []string{"doomed"})

	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, h.errOut.String(), "error: "+store.MsgCreateFailed)
}

func TestAddCommandAuthError(t *testing.T) {
	h := newHarness(t, false)
	h.svc.CreateTaskErr = service.ErrAuthTokenUnavailable

	code := h.run(t, &commands.AddCmd{}, []string{"doomed"})

	assert.Equal(t, exitcode.AuthError, code)
}

func TestEditCommand(t *testing.T) {
	h := newHarness(t, false)
	seeded := h.seed(2)

	code := h.run(t, &commands.EditCmd{}, []string{"2", "new", "details"})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.UpdateTaskCalls())
	assert.Contains(t, h.out.String(), store.MsgUpdated)

	tasks := h.st.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, seeded[1].ID, tasks[1].ID)
	assert.Equal(t, "new details", tasks[1].Details)
}

func TestEditCommandOutOfRange(t *testing.T) {
	h := newHarness(t, false)
	h.seed(1)

	code := h.run(t, &commands.EditCmd{}, []string{"5", "details"})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: task number out of range: 5\n", h.errOut.String())
	assert.Equal(t, 0, h.svc.UpdateTaskCalls())
}

func TestEditCommandInvalidNumber(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.EditCmd{}, []string{"abc", "details"})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid task number: abc\n", h.errOut.String())
}

func TestRmCommand(t *testing.T) {
	h := newHarness(t, false)
	seeded := h.seed(3)

	code := h.run(t, &commands.RmCmd{}, []string{"2"})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, h.svc.DeleteTaskCalls())

	tasks := h.st.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, seeded[0].ID, tasks[0].ID)
	assert.Equal(t, seeded[2].ID, tasks[1].ID)
}

func TestRmCommandOutOfRange(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.RmCmd{}, []string{"1"})

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: task number out of range: 1\n", h.errOut.String())
}

func TestRefreshCommandBypassesCacheWindow(t *testing.T) {
	h := newHarness(t, false)
	h.seed(1)
	require.Equal(t, exitcode.Success, h.run(t, &commands.ListCmd{}, nil))
	h.out.Reset()

	code := h.run(t, &commands.RefreshCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 2, h.svc.ListTasksCalls(), "refresh must hit the network inside the window")
	assert.Equal(t, "   1  task A\n", h.out.String())
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newHarness(t, false)
	h.cfg.BaseURL = srv.URL

	code := h.run(t, &commands.HealthCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", h.out.String())
}

func TestHealthCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newHarness(t, false)
	h.cfg.BaseURL = srv.URL

	code := h.run(t, &commands.HealthCmd{}, nil)

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: "+commands.MsgTechnicalIssue+"\n", h.errOut.String())
}

func TestLoginCommandStoresToken(t *testing.T) {
	h := newHarness(t, false)

	tokenFile := filepath.Join(t.TempDir(), "issued.json")
	doc := `{"access_token":"abc-123","token_type":"Bearer"}`
	require.NoError(t, os.WriteFile(tokenFile, []byte(doc), 0600))

	cmd := &commands.LoginCmd{}
	cmd.SetTokenFile(tokenFile)
	code := h.run(t, cmd, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", h.out.String())
	assert.True(t, h.cfg.HasToken())
}

func TestLoginCommandBareToken(t *testing.T) {
	h := newHarness(t, false)

	tokenFile := filepath.Join(t.TempDir(), "bare.txt")
	require.NoError(t, os.WriteFile(tokenFile, []byte("raw-bearer-token\n"), 0600))

	cmd := &commands.LoginCmd{}
	cmd.SetTokenFile(tokenFile)
	code := h.run(t, cmd, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.True(t, h.cfg.HasToken())
}

func TestLoginCommandRejectsEmptyToken(t *testing.T) {
	h := newHarness(t, false)

	tokenFile := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  \n"), 0600))

	cmd := &commands.LoginCmd{}
	cmd.SetTokenFile(tokenFile)
	code := h.run(t, cmd, nil)

	assert.Equal(t, exitcode.AuthError, code)
	assert.False(t, h.cfg.HasToken())
}

func TestLogoutCommand(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.cfg.EnsureDir())
	require.NoError(t, os.WriteFile(h.cfg.TokenPath(), []byte("{}"), 0600))

	code := h.run(t, &commands.LogoutCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", h.out.String())
	assert.False(t, h.cfg.HasToken())
}

func TestLogoutCommandNotLoggedIn(t *testing.T) {
	h := newHarness(t, false)

	code := h.run(t, &commands.LogoutCmd{}, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "not logged in\n", h.out.String())
}
