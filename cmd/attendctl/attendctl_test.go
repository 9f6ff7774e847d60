package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Name"}, [][]string{{"1", "Dr Banda"}, {"22"}}, []columnAlignment{alignRight})
	assert.Contains(t, out, "Dr Banda")
	assert.Contains(t, out, "22")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestStudentTableMarksFaces(t *testing.T) {
	out := studentTable([]model.Student{
		{StudentNumber: "S001", Name: "Ada", FaceEncoding: make([]byte, 512)},
		{StudentNumber: "S002", Name: "Ben"},
	})
	lines := strings.Split(out, "\n")
	var ada, ben string
	for _, l := range lines {
		if strings.Contains(l, "S001") {
			ada = l
		}
		if strings.Contains(l, "S002") {
			ben = l
		}
	}
	assert.Contains(t, ada, "yes")
	assert.Contains(t, ben, "no")
}

func TestStatsTable(t *testing.T) {
	out := statsTable(model.FaceIndexStats{Count: 3, MatchTolerance: 0.5, DuplicateTolerance: 0.6, LoadedAt: time.Now()})
	assert.Contains(t, out, "0.50")
	assert.Contains(t, out, "0.60")
}

func TestPasswordReaderPiped(t *testing.T) {
	var out bytes.Buffer
	p := &passwordReader{in: strings.NewReader("hunter22\n"), out: &out}
	pw, err := p.ask()
	require.NoError(t, err)
	assert.Equal(t, "hunter22", pw)

	p = &passwordReader{in: strings.NewReader("abc"), out: &out}
	_, err = p.ask()
	assert.Error(t, err)
}

func TestPasswordFlag(t *testing.T) {
	pw, err := passwordFlagOrPrompt("secret1", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "secret1", pw)

	_, err = passwordFlagOrPrompt("abc", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, path := range [][]string{
		{"admin", "create"},
		{"admin", "reset-password"},
		{"lecturer", "create"},
		{"lecturer", "list"},
		{"students"},
		{"faces", "check"},
		{"faces", "reload"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"admin", "create"})
	assert.Error(t, root.Execute(), "username argument is required")
}
