package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/auth/jwtclaims"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/localfs"
	"github.com/custodia-labs/kbhub-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
	"github.com/custodia-labs/kbhub-cli/internal/core/services"
)

// testEnv is a wired CLI backed by an in-memory knowledge base.
type testEnv struct {
	backend  *memory.Backend
	auth     *services.AuthService
	settings *services.SettingsService
	gate     *services.SessionGate
}

// setupTestServices wires the CLI against a seeded in-memory backend for a
// user with groups and stores a token so sessions open.
func setupTestServices(t *testing.T, groups ...string) *testEnv {
	t.Helper()
	env := setupLoggedOut(t, groups...)
	_, err := env.auth.Login(context.Background(), "opaque-test-token")
	require.NoError(t, err)
	return env
}

// setupLoggedOut wires the CLI without a stored token.
func setupLoggedOut(t *testing.T, groups ...string) *testEnv {
	t.Helper()

	b := memory.NewBackend("alice", groups...)
	b.AddTag(domain.Tag{Name: "finance", Color: "#72dbc8"})
	b.AddTag(domain.Tag{Name: "legal", Color: "#df8194"})
	b.AddFile(domain.FileRecord{FileID: "report.pdf", Filename: "report.pdf", Size: 2048, Tags: []string{"finance"}})
	b.AddFile(domain.FileRecord{FileID: "notes.md", Filename: "notes.md", Size: 100})

	auth := services.NewAuthService(memory.NewSessionStore(), jwtclaims.New(), "")
	gate := services.NewSessionGate(auth, b, services.WorkspaceOptions{
		ObjectStore: b,
		LocalFiles:  localfs.New(),
	})
	settings := services.NewSettingsService(memory.NewConfigStore())

	loaded = &Services{
		Settings: settings,
		Auth:     auth,
		Gate:     gate,
	}
	t.Cleanup(func() {
		gate.Wait()
		loaded = nil
		resetFlags()
	})
	return &testEnv{backend: b, auth: auth, settings: settings, gate: gate}
}

func resetFlags() {
	configDir, profile, tokenFlag, verboseLog = "", "", "", false
	filesQuery, filesTags, filesJSON, filesYes, filesOpen, filesDownOpen = "", nil, false, false, false, false
	searchJSON = false
	tagsColor, tagsYes, tagsJSON = "", false, false
	adminJSON, auditLimit, exportPath = false, 50, ""
}

// run executes the root command with args and returns everything written.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

// runWithInput executes the root command with input on stdin.
func runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
