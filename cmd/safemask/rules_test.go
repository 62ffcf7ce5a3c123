package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesAddAndRm_Lifecycle(t *testing.T) {
	withTempRulesPath(t)

	ruleAddPattern = "hunter2"
	ruleAddMask = "[X]"
	ruleAddPriority = 0
	ruleAddDisabled = false

	var addBuf bytes.Buffer
	addCmd := &cobra.Command{}
	addCmd.SetOut(&addBuf)
	require.NoError(t, runRulesAdd(addCmd, []string{"my-secret"}))
	assert.Contains(t, addBuf.String(), "saved custom rule \"my-secret\"")

	var listBuf bytes.Buffer
	listCmd := &cobra.Command{}
	listCmd.SetOut(&listBuf)
	rulesOutputFormat = "table"
	require.NoError(t, runRulesList(listCmd, nil))
	assert.Contains(t, listBuf.String(), "my-secret")

	var rmBuf bytes.Buffer
	rmCmd := &cobra.Command{}
	rmCmd.SetOut(&rmBuf)
	require.NoError(t, runRulesRm(rmCmd, []string{"my-secret"}))
	assert.Contains(t, rmBuf.String(), "deleted custom rule \"my-secret\"")

	listBuf.Reset()
	require.NoError(t, runRulesList(listCmd, nil))
	assert.NotContains(t, listBuf.String(), "my-secret")
}
