package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTemplate(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		replacements map[string]string
		want         Command
	}{
		{
			name:         "build",
			template:     "yarn workspace {package} build",
			replacements: map[string]string{"{package}": "funny-world"},
			want:         Command{Name: "yarn", Args: []string{"workspace", "funny-world", "build"}},
		},
		{
			name:     "deploy",
			template: "gcloud functions deploy {function} --source {source}",
			replacements: map[string]string{
				"{function}": "funny-world",
				"{source}":   "/repo/functions/funny world",
			},
			want: Command{Name: "gcloud", Args: []string{"functions", "deploy", "funny-world", "--source", "/repo/functions/funny world"}},
		},
		{
			name:         "quoted words",
			template:     `npx tsc -p "tsconfig build.json" --outDir=dist/{function}`,
			replacements: map[string]string{"{function}": "hello"},
			want:         Command{Name: "npx", Args: []string{"tsc", "-p", "tsconfig build.json", "--outDir=dist/hello"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromTemplate(tt.template, tt.replacements)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromTemplate_Errors(t *testing.T) {
	for _, tmpl := range []string{"", "   ", `yarn "unclosed`} {
		_, err := FromTemplate(tmpl, nil)
		require.Error(t, err, tmpl)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Name: "gcloud", Args: []string{"deploy", "--set-env-vars", "A='1'", "my dir"}}
	assert.Equal(t, `gcloud deploy --set-env-vars 'A='\''1'\''' 'my dir'`, cmd.String())
}

func TestExecRunner(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner()

	out, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "pwd; echo $GREETING"},
		Dir:  dir,
		Env:  []string{"GREETING=hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, string(out.Combined), resolved)
	assert.Contains(t, string(out.Combined), "hello")
}

func TestExecRunner_LogsCommand(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	r := &ExecRunner{logger: zerolog.New(&buf)}
	dir := t.TempDir()

	_, err := r.Run(context.Background(), Command{Name: "true", Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Executing command")
	assert.Contains(t, buf.String(), `"workingDir":"`+dir+`"`)
}

func TestExecRunner_Failure(t *testing.T) {
	r := NewExecRunner()

	out, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalCommand))
	assert.Equal(t, 3, out.ExitCode)

	details := errors.GetErrorDetails(err)
	assert.Equal(t, 3, details["exitCode"])
	assert.Contains(t, details["output"], "boom")
}

func TestExecRunner_MissingDir(t *testing.T) {
	r := NewExecRunner()
	_, err := r.Run(context.Background(), Command{Name: "true", Dir: filepath.Join(os.TempDir(), "does-not-exist-fnbundle")})
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestDryRunRunner(t *testing.T) {
	var seen []Command
	r := NewDryRunRunner(func(c Command) { seen = append(seen, c) })

	cmd := Command{Name: "gcloud", Args: []string{"functions", "deploy", "hello"}}
	out, err := r.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, Output{}, out)
	assert.Equal(t, []Command{cmd}, seen)
}
