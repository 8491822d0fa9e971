package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/personachat/internal/api"
	"github.com/diogo/personachat/internal/config"
	apierrors "github.com/diogo/personachat/internal/errors"
	"github.com/diogo/personachat/internal/models"
)

// isolate points the config directory at a fresh temp dir and disables colors
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
	return dir
}

func executeRoot(t *testing.T, deps *Dependencies, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mockDeps(client api.ChatClientInterface) *Dependencies {
	return &Dependencies{Client: client, TUI: &fakeTUI{}}
}

func TestRootCommand_Structure(t *testing.T) {
	cmd := NewRootCmd(mockDeps(nil))

	assert.Equal(t, "personachat [message]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Args)

	for _, name := range []string{"persona", "backend", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent flag %s", name)
	}
	for _, name := range []string{"file", "raw", "version"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}

	var subs []string
	for _, c := range cmd.Commands() {
		subs = append(subs, c.Name())
	}
	assert.Subset(t, subs, []string{"chat", "personas", "config"})
}

func TestRootCommand_Version(t *testing.T) {
	isolate(t)

	for _, flag := range []string{"-v", "--version"} {
		t.Run(flag, func(t *testing.T) {
			out, _, err := executeRoot(t, mockDeps(nil), "", flag)
			require.NoError(t, err)
			assert.Equal(t, "personachat "+Version+" (built "+BuildTime+")\n", out)
		})
	}
}

func TestRootCommand_NoInputShowsHelp(t *testing.T) {
	isolate(t)
	mock := api.NewMockClient("unused")

	out, _, err := executeRoot(t, mockDeps(mock), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Zero(t, mock.Calls())
}

func TestOneShot_Inputs(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  func(dir string) []string
		want  string
	}{
		{
			name: "argument",
			args: func(string) []string { return []string{"--raw", "Recommend a film"} },
			want: "Recommend a film",
		},
		{
			name:  "stdin",
			stdin: "  from stdin\n",
			args:  func(string) []string { return []string{"--raw"} },
			want:  "from stdin",
		},
		{
			name: "file",
			args: func(dir string) []string {
				return []string{"--raw", "-f", filepath.Join(dir, "question.txt")}
			},
			want: "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "question.txt"), []byte("line one\nline two\n"), 0o600))
			mock := api.NewMockClient("Hello")

			out, _, err := executeRoot(t, mockDeps(mock), tt.stdin, tt.args(dir)...)
			require.NoError(t, err)

			assert.Equal(t, "Hello\n", out)
			assert.Equal(t, []models.ChatRequest{{Message: tt.want, Persona: "movie_expert"}}, mock.Requests())
		})
	}
}

func TestOneShot_DecoratedOutput(t *testing.T) {
	isolate(t)

	out, _, err := executeRoot(t, mockDeps(api.NewMockClient("Try Chinatown.")), "", "-p", "movie_expert", "noir?")
	require.NoError(t, err)
	assert.Equal(t, "Movie Expert: Try Chinatown.\n", out)
}

func TestOneShot_PersonaFlag(t *testing.T) {
	isolate(t)
	mock := api.NewMockClient("Go to Porto")

	out, _, err := executeRoot(t, mockDeps(mock), "", "--persona", "travel_guide", "Where?")
	require.NoError(t, err)

	assert.Equal(t, "Travel Guide: Go to Porto\n", out)
	assert.Equal(t, "travel_guide", mock.Requests()[0].Persona)
}

func TestOneShot_UnknownPersona(t *testing.T) {
	isolate(t)
	mock := api.NewMockClient("unused")

	_, _, err := executeRoot(t, mockDeps(mock), "", "-p", "pirate", "Ahoy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown persona "pirate"`)
	assert.Contains(t, err.Error(), "movie_expert")
	assert.Zero(t, mock.Calls())
}

func TestOneShot_EmptyMessage(t *testing.T) {
	isolate(t)
	mock := api.NewMockClient("unused")

	_, _, err := executeRoot(t, mockDeps(mock), "", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	assert.Zero(t, mock.Calls())
}

func TestOneShot_BackendFailure(t *testing.T) {
	isolate(t)
	failure := apierrors.NewAPIErrorWithBody(503, "Service Unavailable", "https://x/chat", "busy", `{"error":"busy"}`)

	t.Run("decorated", func(t *testing.T) {
		out, errOut, err := executeRoot(t, mockDeps(api.NewMockClientWithError(failure)), "", "Hi")
		require.NoError(t, err, "backend failures are replies, not command errors")

		assert.Equal(t, "Movie Expert: Error: could not get a response. (Server error: busy)\n", out)
		assert.Contains(t, errOut, "HTTP Status: 503")
		assert.Contains(t, errOut, "failed to send message")
	})

	t.Run("raw", func(t *testing.T) {
		out, _, err := executeRoot(t, mockDeps(api.NewMockClientWithError(failure)), "", "--raw", "Hi")
		require.NoError(t, err)
		assert.Equal(t, "Error: could not get a response. (Server error: busy)\n", out)
	})
}

func TestOneShot_CopyToClipboard(t *testing.T) {
	isolate(t)
	t.Setenv("PERSONACHAT_COPY_TO_CLIPBOARD", "true")

	var copied string
	deps := mockDeps(api.NewMockClient("copy me"))
	deps.Clipboard = func(s string) error {
		copied = s
		return nil
	}

	_, errOut, err := executeRoot(t, deps, "", "Hi")
	require.NoError(t, err)
	assert.Equal(t, "copy me", copied)
	assert.Contains(t, errOut, "Copied to clipboard")
}

func TestOneShot_InvalidBackendFlag(t *testing.T) {
	isolate(t)

	_, _, err := executeRoot(t, mockDeps(api.NewMockClient("unused")), "", "-b", "not a url", "Hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend URL")
}

func TestReadPipedInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"text", "hello", true},
		{"blank", " \n\t", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := readPipedInput(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.input, got)
			}
		})
	}
}

func TestBackendHost(t *testing.T) {
	host, err := backendHost("https://chatbot-backend-3xcv.onrender.com/")
	require.NoError(t, err)
	assert.Equal(t, "chatbot-backend-3xcv.onrender.com", host)

	_, err = backendHost("localhost")
	assert.Error(t, err)
}
