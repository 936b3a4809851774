// Package provider manages the registry of Lua-based platform providers.
package provider

import (
	"path/filepath"

	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/provider/custom"
	"github.com/waverip-cli/waverip/source"
	"github.com/waverip-cli/waverip/util"
	"github.com/waverip-cli/waverip/where"
)

// Provider represents a source provider.
type Provider struct {
	ID           string
	Name         string
	IsCustom     bool
	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns built-in providers. Every platform ships as a Lua script,
// so the built-in set is empty.
func Builtins() []*Provider {
	return []*Provider{}
}

// Customs returns all available Lua providers.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// Get finds a provider by name.
func Get(name string) (*Provider, bool) {
	for _, p := range Customs() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".lua" {
			continue
		}

		// common.lua holds shared helpers, not a provider
		if f.Name() == "common.lua" {
			continue
		}

		path := filepath.Join(where.Sources(), f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			CreateSource: func() (source.Source, error) {
				return custom.LoadSource(path)
			},
		})
	}

	return providers, nil
}
