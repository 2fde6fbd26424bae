package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainUITable(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlainUI(out, strings.NewReader(""))
	u.Table([]string{"Name", "Address"}, [][]string{
		{"GenesisNBMon", "0x31B0A7e9f7EDffbD5214A11693FFd286aDda8D89"},
		{"Mkt", "0x8E71"},
	})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "┌"))
	require.Contains(t, lines[1], "│ Name         │ Address")
	require.Contains(t, lines[4], "│ Mkt          │ 0x8E71 ")
	// every line has the same printed width
	for _, l := range lines {
		require.Equal(t, cellWidth(lines[0]), cellWidth(l))
	}
}

func TestPlainUIKeyValueAndIndent(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlainUI(out, strings.NewReader(""))
	u.Indent().KeyValue([][2]string{{"Status", "done"}, {"Gas used", "21,000"}})
	require.Equal(t, "  Status    done\n  Gas used  21,000\n", out.String())
}

func TestPlainUIPrompts(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlainUI(out, strings.NewReader("maybe\ny\nhunter2\n\n"))
	require.True(t, u.Confirm("Broadcast?", false))
	require.Contains(t, out.String(), "please enter y or n")
	require.Equal(t, "hunter2", u.Password("Passphrase:"))
	require.False(t, u.Confirm("Sign?", false))
}

func TestPlainUIJSON(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlainUI(out, strings.NewReader(""))
	require.NoError(t, u.JSON(map[string]any{"status": StyledText{Text: "done", Severity: SeveritySuccess}}))
	require.JSONEq(t, `{"status":"done"}`, out.String())
}

func TestRecordingUI(t *testing.T) {
	r := NewRecordingUI("yes", "secret")
	r.Info("deploying %s", "NBMon")
	r.Indent().Warn("low balance")
	require.True(t, r.Confirm("Continue?", false))
	require.Equal(t, "secret", r.Password("Passphrase:"))
	require.True(t, r.HasMessage("DEPLOYING nbmon"))
	require.Equal(t, []string{"low balance"}, r.Messages("Warn"))
	require.Panics(t, func() { r.Ask(nil) })
}

func TestPlainUISection(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlainUI(out, strings.NewReader(""))
	u.Section("Confirm tx data before signing")
	require.Equal(t, "\n========= Confirm tx data before signing =========\n\n", out.String())
	require.Equal(t, sectionWidth, cellWidth(strings.TrimSpace(out.String())))
}
