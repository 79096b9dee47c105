package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{
		CmdClusterInfo,
		CmdGetPodLogs,
		CmdListDeployments,
		CmdListPods,
		CmdNotifySlack,
	}, r.Names())

	spec, ok := r.Resolve(CmdGetPodLogs)
	require.True(t, ok)
	assert.Equal(t, []string{ParamPodName}, spec.Required)
	assert.Equal(t, []string{ParamNamespace, ParamTailLines}, spec.Optional)

	spec, ok = r.Resolve(CmdNotifySlack)
	require.True(t, ok)
	assert.Equal(t, []string{ParamChannel, ParamMessage}, spec.Required)

	_, ok = r.Resolve("delete_everything")
	assert.False(t, ok)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(CommandSpec{Name: "restart_deployment", Required: []string{"name"}})
	r.Register(CommandSpec{Name: "restart_deployment", Required: []string{"name", ParamNamespace}})

	spec, ok := r.Resolve("restart_deployment")
	require.True(t, ok)
	assert.Equal(t, []string{"name", ParamNamespace}, spec.Required)
	assert.Equal(t, []string{"restart_deployment"}, r.Names())
}

func TestRegistryValidate(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name        string
		cmd         Command
		wantMissing string
	}{
		{
			name: "all required present",
			cmd: Command{
				Name: CmdNotifySlack,
				Params: map[string]string{
					ParamChannel: "#ops",
					ParamMessage: "deploy finished",
				},
			},
		},
		{
			name: "no required parameters",
			cmd:  Command{Name: CmdListPods},
		},
		{
			name:        "missing single parameter",
			cmd:         Command{Name: CmdGetPodLogs},
			wantMissing: "pod_name",
		},
		{
			name: "empty value counts as missing",
			cmd: Command{
				Name:   CmdGetPodLogs,
				Params: map[string]string{ParamPodName: ""},
			},
			wantMissing: "pod_name",
		},
		{
			name:        "missing multiple parameters",
			cmd:         Command{Name: CmdNotifySlack},
			wantMissing: "channel, message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := r.Resolve(tt.cmd.Name)
			require.True(t, ok)

			derr := r.Validate(tt.cmd, spec)
			if tt.wantMissing == "" {
				assert.Nil(t, derr)
				return
			}
			require.NotNil(t, derr)
			assert.Equal(t, ErrValidation, derr.Kind)
			assert.Contains(t, derr.Detail, tt.wantMissing)
		})
	}
}

func TestCommandSpecString(t *testing.T) {
	spec := CommandSpec{
		Name:     CmdGetPodLogs,
		Required: []string{ParamPodName},
		Optional: []string{ParamNamespace, ParamTailLines},
	}
	assert.Equal(t, "get_pod_logs <pod_name> [namespace] [tail_lines]", spec.String())
}

func TestCommandParamOr(t *testing.T) {
	cmd := Command{Params: map[string]string{ParamNamespace: "kube-system"}}

	assert.Equal(t, "kube-system", cmd.ParamOr(ParamNamespace, "default"))
	assert.Equal(t, "default", cmd.ParamOr("missing", "default"))

	cmd.Params["empty"] = ""
	assert.Equal(t, "default", cmd.ParamOr("empty", "default"))
}
