package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/session"
)

func TestPickOptionsFlagsOverrideConfig(t *testing.T) {
	cfg := &config.Config{Picker: config.PickerConfig{
		Root:       "/srv",
		Accept:     []string{".txt"},
		Cancelable: true,
		Title:      "File Picker",
	}}

	cmd := &cobra.Command{Use: "pick"}
	addPickFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--multiple", "--accept", ".jpg,.png", "--cancelable=false"}))

	opts := pickOptions(cmd, cfg, []string{"/data"})
	assert.Equal(t, session.PickOptions{
		Root:       "/data",
		Multiple:   true,
		Accept:     []string{".jpg", ".png"},
		Cancelable: false,
		Title:      "File Picker",
	}, opts)

	// 未修改的 flag 保留配置文件中的值
	plain := &cobra.Command{Use: "pick"}
	addPickFlags(plain)
	require.NoError(t, plain.ParseFlags(nil))
	opts = pickOptions(plain, cfg, nil)
	assert.Equal(t, "/srv", opts.Root)
	assert.Equal(t, []string{".txt"}, opts.Accept)
	assert.True(t, opts.Cancelable)
}

func TestAnswerCode(t *testing.T) {
	assert.Equal(t, 0, answerCode(session.AnswerConfirmed))
	assert.Equal(t, 1, answerCode(session.AnswerCancelled))
	assert.Equal(t, 2, answerCode(session.AnswerNone))
}

func TestUsesTerminalUI(t *testing.T) {
	assert.True(t, usesTerminalUI(rootCmd))
	assert.True(t, usesTerminalUI(pickCmd))
	assert.True(t, usesTerminalUI(confirmCmd))
	assert.False(t, usesTerminalUI(serveCmd))
	assert.False(t, usesTerminalUI(listCmd))
	assert.False(t, usesTerminalUI(hashPasswordCmd))
}
