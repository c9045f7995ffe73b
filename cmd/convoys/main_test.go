package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "convoys "+version+"\n", out)
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "optimizer:")
	assert.Contains(t, out, "algorithm: adam")
	assert.Contains(t, out, "confidence: 0.95")
}

func TestConfigCmd_WithFile(t *testing.T) {
	path := writeFile(t, "c.yaml", "prediction: {samples: 50}\n")
	out, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "samples: 50")
}

func TestConfigCmd_InvalidFile(t *testing.T) {
	path := writeFile(t, "c.yaml", "logging: {level: loud}\n")
	_, err := run(t, "config", "--config", path)
	assert.Error(t, err)
}

func TestKMCmd_Points(t *testing.T) {
	input := writeFile(t, "obs.csv", "indicator,time\n1,1\n1,2\n0,3\n1,4\n")
	out, err := run(t, "km", "--input", input, "--at", "0.5,1.5,4", "--ci", "0")
	require.NoError(t, err)

	assert.Equal(t, "time,cdf\n0.5,0\n1.5,0.25\n4,NaN\n", out)
}

func TestKMCmd_IntervalFromConfig(t *testing.T) {
	input := writeFile(t, "obs.csv", "1,1\n1,2\n0,3\n1,4\n")
	out, err := run(t, "km", "--input", input, "--at", "1.5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "time,cdf,lower,upper", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1.5,0.25,"), lines[1])
}

func TestKMCmd_ConfidenceFromConfigFile(t *testing.T) {
	input := writeFile(t, "obs.csv", "1,1\n1,2\n0,3\n1,4\n")

	cfg := writeFile(t, "c.yaml", "survival: {confidence: 0}\n")
	out, err := run(t, "--config", cfg, "km", "--input", input, "--at", "1.5")
	require.NoError(t, err)
	assert.Equal(t, "time,cdf\n1.5,0.25\n", out)

	narrow := writeFile(t, "n.yaml", "survival: {confidence: 0.5}\n")
	outNarrow, err := run(t, "--config", narrow, "km", "--input", input, "--at", "1.5")
	require.NoError(t, err)
	outDefault, err := run(t, "km", "--input", input, "--at", "1.5")
	require.NoError(t, err)
	assert.NotEqual(t, outDefault, outNarrow)

	// An explicit flag wins over the file.
	outFlag, err := run(t, "--config", narrow, "km", "--input", input, "--at", "1.5", "--ci", "0.95")
	require.NoError(t, err)
	assert.Equal(t, outDefault, outFlag)
}

func TestKMCmd_HelpShowsConfigDefault(t *testing.T) {
	out, err := run(t, "km", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "default from config survival.confidence, 0.95")
}

func TestKMCmd_Errors(t *testing.T) {
	_, err := run(t, "km", "--at", "1")
	assert.Error(t, err, "missing --input")

	_, err = run(t, "km", "--input", filepath.Join(t.TempDir(), "absent.csv"), "--at", "1")
	assert.Error(t, err)

	bad := writeFile(t, "bad.csv", "1,1\nx,2\n")
	_, err = run(t, "km", "--input", bad, "--at", "1")
	assert.ErrorContains(t, err, "line 2")

	empty := writeFile(t, "empty.csv", "indicator,time\n0,-1\n")
	_, err = run(t, "km", "--input", empty, "--at", "1")
	assert.Error(t, err)
}

func TestReadObservations(t *testing.T) {
	indicators, times, err := readObservations(strings.NewReader("b, t\n1, 2.5\n0,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, indicators)
	assert.Equal(t, []float64{2.5, 3}, times)

	_, _, err = readObservations(strings.NewReader("1,2,3\n"))
	assert.Error(t, err)
}
