package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/client/client"
	"github.com/dmitrijs2005/certifier/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	username, password string
	settings           *api.Settings
	savedSettings      *api.Settings
	added              api.InternInput
	importDoc          string
	importResp         *api.ImportInternsResponse
	listReq            api.ListInternsRequest
	err                error
	uploaded           string
	closed             bool
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Ping(context.Context) error { return f.err }

func (f *fakeClient) Register(_ context.Context, u, p string) error {
	f.username, f.password = u, p
	return f.err
}

func (f *fakeClient) Login(_ context.Context, u, p string) error {
	f.username, f.password = u, p
	return f.err
}

func (f *fakeClient) Verify(_ context.Context, id string) (*api.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.Certificate{CertificateID: id, InternName: "Ada Lovelace", VerificationCount: 3}, nil
}

func (f *fakeClient) SaveSettings(_ context.Context, s api.Settings) (*api.Settings, error) {
	f.savedSettings = &s
	s.SetupCompleted = true
	return &s, f.err
}

func (f *fakeClient) GetSettings(context.Context) (*api.Settings, error) {
	if f.settings == nil {
		return nil, client.ErrNotFound
	}
	return f.settings, nil
}

func (f *fakeClient) AddIntern(_ context.Context, in api.InternInput) (*api.Intern, error) {
	f.added = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.Intern{FullName: in.FullName, CertificateID: "CERT-1700000000000-ABCDEFGHI"}, nil
}

func (f *fakeClient) ImportInterns(_ context.Context, doc string) (*api.ImportInternsResponse, error) {
	f.importDoc = doc
	return f.importResp, f.err
}

func (f *fakeClient) ListInterns(_ context.Context, req api.ListInternsRequest) (*api.ListInternsResponse, error) {
	f.listReq = req
	return &api.ListInternsResponse{
		Interns: []api.Intern{{CertificateID: "CERT-1-AAAAAAAAA", FullName: "Ada", Domain: "AI"}},
		Total:   11, Page: req.Page, PageSize: req.PageSize,
	}, f.err
}

func (f *fakeClient) GetIntern(_ context.Context, id string) (*api.Intern, error) {
	return &api.Intern{ID: id, FullName: "Ada"}, f.err
}

func (f *fakeClient) Domains(context.Context) ([]string, error) { return []string{"AI", "Web"}, f.err }

func (f *fakeClient) Stats(context.Context) (*api.Stats, error) {
	return &api.Stats{TotalInterns: 5, Verifications: 9}, f.err
}

func (f *fakeClient) UploadAsset(_ context.Context, path string) (string, error) {
	f.uploaded = path
	return "s3://branding/u/logo.png", f.err
}

type fakeSession struct {
	name    string
	cleared bool
	closed  bool
}

func (s *fakeSession) Username(context.Context) (string, error) { return s.name, nil }
func (s *fakeSession) SetUsername(_ context.Context, n string) error {
	s.name = n
	return nil
}
func (s *fakeSession) Clear(context.Context) error { s.cleared = true; s.name = ""; return nil }
func (s *fakeSession) Close() error                { s.closed = true; return nil }

type harness struct {
	client  *fakeClient
	session *fakeSession
	cfg     *config.Config
}

func run(t *testing.T, h *harness, stdin string, args ...string) (string, error) {
	t.Helper()
	stubTerminal(t, false, "", errors.New("no terminal"))

	cmd := NewRootCmd(func(_ context.Context, cfg *config.Config) (*App, error) {
		h.cfg = cfg
		return NewApp(h.client, h.session, time.Second), nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newHarness() *harness {
	return &harness{client: &fakeClient{}, session: &fakeSession{}}
}

func TestLogin_PromptsAndRemembersUser(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "alice\ncorrect horse\n", "login")
	require.NoError(t, err)
	assert.Equal(t, "alice", h.client.username)
	assert.Equal(t, "correct horse", h.client.password)
	assert.Equal(t, "alice", h.session.name)
	assert.Contains(t, out, "Logged in as alice")
	assert.True(t, h.client.closed)
	assert.True(t, h.session.closed)
}

func TestLogin_FailureKeepsSession(t *testing.T) {
	h := newHarness()
	h.session.name = "previous"
	h.client.err = client.ErrUnauthorized

	_, err := run(t, h, "pw\n", "login", "alice")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "previous", h.session.name)
}

func TestRegister_UsernameFromArgs(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "s3cret-pass\n", "register", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", h.client.username)
	assert.Contains(t, out, "Registered bob")
}

func TestLogoutAndWhoami(t *testing.T) {
	h := newHarness()
	h.session.name = "alice"

	out, err := run(t, h, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "alice\n", out)

	_, err = run(t, h, "", "logout")
	require.NoError(t, err)
	assert.True(t, h.session.cleared)

	out, err = run(t, h, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", out)
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	h := newHarness()
	t.Setenv("CERTIFIER_CLI_SERVER_ADDR", "env:1")

	_, err := run(t, h, "", "ping")
	require.NoError(t, err)
	assert.Equal(t, "env:1", h.cfg.ServerEndpointAddr)

	_, err = run(t, h, "", "--server", "flag:2", "--timeout", "3s", "ping")
	require.NoError(t, err)
	assert.Equal(t, "flag:2", h.cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, h.cfg.RequestTimeout)
}

func TestSettingsSet_FirstSetupUsesFlagsOnly(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "", "settings", "set",
		"--company", "Acme", "--logo", "s3://logo.png",
		"--supervisor", "Grace", "--supervisor-signature", "s3://grace.png",
		"--ceo", "Ada", "--ceo-signature", "s3://ada.png", "--template", "modern")
	require.NoError(t, err)
	require.NotNil(t, h.client.savedSettings)
	assert.Equal(t, "Acme", h.client.savedSettings.CompanyName)
	assert.Equal(t, "modern", h.client.savedSettings.SelectedTemplate)
	assert.Contains(t, out, "Setup completed:")
}

func TestSettingsSet_MergesWithStored(t *testing.T) {
	h := newHarness()
	h.client.settings = &api.Settings{CompanyName: "Acme", CEOName: "Ada", SelectedTemplate: "classic"}

	_, err := run(t, h, "", "settings", "set", "--template", "elegant")
	require.NoError(t, err)
	assert.Equal(t, "Acme", h.client.savedSettings.CompanyName)
	assert.Equal(t, "Ada", h.client.savedSettings.CEOName)
	assert.Equal(t, "elegant", h.client.savedSettings.SelectedTemplate)
}

func TestSettingsUpload_PrintsReference(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "", "settings", "upload", "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "logo.png", h.client.uploaded)
	assert.Equal(t, "s3://branding/u/logo.png\n", out)
}

func TestSettingsShow_NotConfigured(t *testing.T) {
	h := newHarness()
	_, err := run(t, h, "", "settings", "show")
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestInternAdd(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "", "interns", "add", "--name", "Ada Lovelace", "--domain", "AI", "--start", "2024-01-01", "--end", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, api.InternInput{FullName: "Ada Lovelace", Domain: "AI", StartDate: "2024-01-01", EndDate: "2024-03-01"}, h.client.added)
	assert.Contains(t, out, "CERT-1700000000000-ABCDEFGHI")
}

func TestInternImport_FromFile(t *testing.T) {
	h := newHarness()
	h.client.importResp = &api.ImportInternsResponse{
		Outcomes:  []api.RowOutcome{{Row: 1, Success: true, CertificateID: "CERT-1-AAAAAAAAA"}, {Row: 2, Error: "endDate must be after startDate"}},
		Succeeded: 1,
		Failed:    1,
	}
	path := filepath.Join(t.TempDir(), "interns.csv")
	require.NoError(t, os.WriteFile(path, []byte("fullName,email,domain,startDate,endDate,status\n"), 0o600))

	out, err := run(t, h, "", "interns", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "fullName,email,domain,startDate,endDate,status\n", h.client.importDoc)
	assert.Contains(t, out, "row 1  ok      CERT-1-AAAAAAAAA")
	assert.Contains(t, out, "endDate must be after startDate")
	assert.Contains(t, out, "1 imported, 1 failed")
}

func TestInternImport_StdinAndAbort(t *testing.T) {
	h := newHarness()
	h.client.importResp = &api.ImportInternsResponse{Aborted: true, Reason: "identity source failed"}

	_, err := run(t, h, "csv from stdin", "interns", "import", "-")
	require.ErrorIs(t, err, ErrImportAborted)
	assert.Equal(t, "csv from stdin", h.client.importDoc)
}

func TestInternImport_MissingFile(t *testing.T) {
	_, err := run(t, newHarness(), "", "interns", "import", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestInternList_PassesFilters(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "", "interns", "list", "--domain", "AI", "--search", "ada", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, api.ListInternsRequest{Domain: "AI", Search: "ada", Page: 2, PageSize: 10}, h.client.listReq)
	assert.Contains(t, out, "CERTIFICATE")
	assert.Contains(t, out, "page 2, 1 of 11 interns")
}

func TestReadOnlyCommands(t *testing.T) {
	h := newHarness()

	out, err := run(t, h, "", "domains")
	require.NoError(t, err)
	assert.Equal(t, "AI\nWeb\n", out)

	out, err = run(t, h, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Verifications:")

	out, err = run(t, h, "", "verify", "CERT-1-AAAAAAAAA")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Last verified:")

	out, err = run(t, h, "", "interns", "get", "id-7")
	require.NoError(t, err)
	assert.Contains(t, out, "id-7")

	out, err = run(t, h, "", "ping")
	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}

func TestVerify_NotFound(t *testing.T) {
	h := newHarness()
	h.client.err = client.ErrNotFound

	out, err := run(t, h, "", "verify", "CERT-0-NOPE")
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, out, `warning: "CERT-0-NOPE" does not look like a certificate id`)
}

func TestVerify_WellFormedIDHasNoWarning(t *testing.T) {
	h := newHarness()
	h.client.err = client.ErrNotFound

	out, err := run(t, h, "", "verify", "CERT-1700000000000-0A1B2C3D4")
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.NotContains(t, out, "warning")
}

func TestOpenerError(t *testing.T) {
	stubTerminal(t, false, "", nil)
	cmd := NewRootCmd(func(context.Context, *config.Config) (*App, error) { return nil, errors.New("no session") })
	cmd.SetArgs([]string{"ping"})
	cmd.SetOut(&bytes.Buffer{})
	require.EqualError(t, cmd.ExecuteContext(context.Background()), "no session")
}
