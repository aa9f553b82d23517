package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbhub-cli/internal/core/domain"
)

func TestAuthCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, 3)
	for _, cmd := range authCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"login", "logout", "status"}, names)
	assert.Contains(t, authStatusCmd.Aliases, "whoami")
}

func TestAuthLogin_StoresTokenFromInput(t *testing.T) {
	env := setupLoggedOut(t, domain.GroupContributors)

	out, err := runWithInput(t, "  opaque-token  \n", "auth", "login")

	require.NoError(t, err)
	assert.Contains(t, out, "Token stored for profile default.")
	assert.Contains(t, out, "User:     alice")
	assert.Contains(t, out, "Groups:   Contributors")
	assert.Contains(t, out, "Views:    upload, browse")

	stored, err := env.auth.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", stored.Token)
}

func TestAuthLogin_EmptyInput(t *testing.T) {
	setupLoggedOut(t)

	_, err := runWithInput(t, "", "auth", "login")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthLogin_BlankToken(t *testing.T) {
	setupLoggedOut(t)

	_, err := runWithInput(t, "   \n", "auth", "login")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestAuthStatus_NotLoggedIn(t *testing.T) {
	setupLoggedOut(t)

	out, err := run(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestAuthStatus_ShowsStoredTokenAndRoles(t *testing.T) {
	setupTestServices(t, domain.GroupAdmins)

	out, err := run(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Profile:  default")
	assert.Contains(t, out, "Expires:  -")
	assert.Contains(t, out, "User:     alice")
	assert.Contains(t, out, "Views:    upload, browse, admin")
	assert.Contains(t, out, "Admin:    true")
}

func TestAuthStatus_ViewerHasNoGroups(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "auth", "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "Groups:   (none)")
	assert.Contains(t, out, "Views:    browse")
	assert.Contains(t, out, "Upload:   false")
}

func TestAuthLogout(t *testing.T) {
	env := setupTestServices(t)

	out, err := run(t, "auth", "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	_, err = env.auth.Status(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}
