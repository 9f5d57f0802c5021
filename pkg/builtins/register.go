package builtins

import (
	"github.com/kalekundert/sparekeys/pkg/execution"
	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// RegisterAll registers every built-in plugin with the registry
func RegisterAll(reg *plugins.Registry, runner execution.CommandRunner, params plugins.Params) error {
	all := []plugins.Plugin{
		&SSHArchiver{},
		&GPGArchiver{},
		&FileArchiver{},
		&AvendesoraArchiver{},
		NewEmborgArchiver(runner),
		NewGetpassAuth(),
		NewAvendesoraAuth(runner),
		NewSCPPublisher(runner, params),
		NewMountPublisher(runner, params),
	}
	for _, p := range all {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}
