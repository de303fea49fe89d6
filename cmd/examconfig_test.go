package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/guwen/internal/exam"
	"github.com/abhisek/guwen/internal/weight"
)

func newExamFlagsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addExamFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestExamConfigFromFlags(t *testing.T) {
	cmd := newExamFlagsCmd(t,
		"-n", "5", "-t", "different-characters", "--article", "quanxue",
		"--priority", "而,之", "--random-rate", "20", "--options", "3", "--sentences", "2",
	)
	cfg, err := examConfigFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.QuestionCount)
	assert.Equal(t, exam.DifferentCharacters, cfg.QuestionType)
	assert.Equal(t, "quanxue", cfg.Scope.ArticleID)
	assert.Equal(t, []string{"而", "之"}, cfg.PriorityCharacters)
	assert.Equal(t, 20, cfg.RandomRate)
	assert.Equal(t, 3, cfg.OptionsCount)
	assert.Equal(t, 2, cfg.SentencesPerOption)
}

func TestExamConfigFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
questionCount: 8
questionType: same-character
answerType: definition
scope:
  collectionId: bixiu
characterWeights:
  - char: 而
    weight: 40
includePreviousKnowledge: true
`), 0o644))

	cmd := newExamFlagsCmd(t, "--config", path, "-n", "3")
	cfg, err := examConfigFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.QuestionCount)
	assert.Equal(t, exam.SameCharacter, cfg.QuestionType)
	assert.Equal(t, exam.AnswerDefinition, cfg.AnswerType)
	assert.Equal(t, "bixiu", cfg.Scope.CollectionID)
	assert.True(t, cfg.IncludePreviousKnowledge)
	assert.Equal(t, []weight.CharacterWeight{{Char: "而", Weight: 40}}, cfg.CharacterWeights)
}

func TestExamConfigFileErrors(t *testing.T) {
	cmd := newExamFlagsCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := examConfigFromFlags(cmd)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questionCount: [1"), 0o644))
	cmd = newExamFlagsCmd(t, "--config", path)
	_, err = examConfigFromFlags(cmd)
	assert.Error(t, err)
}
